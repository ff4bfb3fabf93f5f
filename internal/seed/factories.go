// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"bloghub/internal/models"
	"bloghub/internal/richtext"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// With DryRun set it only constructs structs, which is what the tests use.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := time.Now().UnixNano()
	gofakeit.Seed(seed)
	return &Factory{
		db:     db,
		opts:   opts,
		rng:    rand.New(rand.NewSource(seed)),
		nextID: 1000,
	}
}

// BuildUser constructs an author account without persisting it.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	username := strings.ToLower(gofakeit.Username())
	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Bio:      gofakeit.Sentence(8),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username),
		Role:     models.RoleAuthor,
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// BuildPost constructs a post with editor-format content. The content is a
// serialized delta document, the same shape the compose endpoint accepts.
func (f *Factory) BuildPost(user *models.User, overrides ...func(*models.Post)) *models.Post {
	title := strings.TrimSuffix(gofakeit.Sentence(5), ".")
	post := &models.Post{
		Title:   title,
		Slug:    models.Slugify(fmt.Sprintf("%s-%s", title, gofakeit.LetterN(6))),
		Content: f.buildDeltaContent(f.rng.Intn(4) + 1),
		UserID:  user.ID,
		Status:  models.PostStatusPublished,
	}
	if f.rng.Float32() < 0.4 {
		post.ThumbnailURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/450", gofakeit.UUID())
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	post.CreatedAt = time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// BuildComment constructs a comment on the given post.
func (f *Factory) BuildComment(user *models.User, post *models.Post) *models.Comment {
	return &models.Comment{
		Content: gofakeit.Sentence(f.rng.Intn(12) + 3),
		UserID:  user.ID,
		PostID:  post.ID,
	}
}

// buildDeltaContent serializes a multi-paragraph delta document.
func (f *Factory) buildDeltaContent(paragraphs int) string {
	doc := richtext.Document{}
	for i := 0; i < paragraphs; i++ {
		doc.Ops = append(doc.Ops, richtext.Op{
			Insert: gofakeit.Paragraph(1, 3, 8, " ") + "\n",
		})
	}
	return doc.Serialize()
}
