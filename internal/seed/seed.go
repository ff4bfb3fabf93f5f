package seed

import (
	"fmt"
	"log"

	"bloghub/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// MaxDays spreads post timestamps over this many days back.
	MaxDays int
	// DryRun builds entities without touching the database.
	DryRun bool
}

// categoryTree is the built-in two-level taxonomy.
var categoryTree = map[string][]string{
	"Programming": {"Go", "Rust", "JavaScript", "Python"},
	"Infrastructure": {"Kubernetes", "Databases", "Networking"},
	"Craft": {"Writing", "Design", "Career"},
}

var tagNames = []string{
	"tutorial", "opinion", "deep-dive", "show-and-tell", "news",
	"performance", "testing", "tooling", "beginners",
}

// draftRatio is the fraction of seeded posts left unpublished.
const draftRatio = 0.2

// Seed populates the database with demo data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	factory := NewFactory(db, opts)

	users, err := createUsers(db, factory, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	categories, err := createOrGetCategories(db)
	if err != nil {
		return fmt.Errorf("failed to create categories: %w", err)
	}
	log.Printf("%d categories available", len(categories))

	tags, err := createOrGetTags(db)
	if err != nil {
		return fmt.Errorf("failed to create tags: %w", err)
	}

	posts, err := createPosts(db, factory, users, categories, tags, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	if err := createComments(db, factory, users, posts); err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}

	log.Println("Database seeding completed")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE comments, likes, post_tags, tags, posts, categories, pages, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(db *gorm.DB, factory *Factory, count int) ([]models.User, error) {
	users := make([]models.User, 0, count)
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)

	// A predictable admin and author for manual poking around.
	if count >= 2 {
		fixed := []models.User{
			{Username: "admin", Email: "admin@example.com", Role: models.RoleAdmin, Bio: "Keeps the lights on."},
			{Username: "sam", Email: "sam@example.com", Role: models.RoleAuthor, Bio: "Writes about Go."},
		}
		for _, u := range fixed {
			u.Password = string(hashedPassword)
			u.Avatar = fmt.Sprintf("https://i.pravatar.cc/150?u=%s", u.Username)
			if err := db.Create(&u).Error; err == nil {
				users = append(users, u)
			}
		}
	}

	for i := len(users); i < count; i++ {
		user := factory.BuildUser(func(u *models.User) {
			// Suffix keeps generated usernames unique across runs.
			u.Username = fmt.Sprintf("%s%d", u.Username, i)
			u.Email = fmt.Sprintf("%s@example.com", u.Username)
			u.Password = string(hashedPassword)
		})
		if err := db.Create(user).Error; err != nil {
			log.Printf("failed to create user %s: %v", user.Username, err)
			continue
		}
		users = append(users, *user)
	}

	return users, nil
}

func createOrGetCategories(db *gorm.DB) ([]models.Category, error) {
	categories := make([]models.Category, 0)

	for parentName, children := range categoryTree {
		var parent models.Category
		err := db.Where(models.Category{Name: parentName}).
			Attrs(models.Category{Slug: models.Slugify(parentName)}).
			FirstOrCreate(&parent).Error
		if err != nil {
			return nil, err
		}
		categories = append(categories, parent)

		for _, childName := range children {
			var child models.Category
			err := db.Where(models.Category{Name: childName, ParentID: &parent.ID}).
				Attrs(models.Category{Slug: models.Slugify(childName)}).
				FirstOrCreate(&child).Error
			if err != nil {
				return nil, err
			}
			categories = append(categories, child)
		}
	}
	return categories, nil
}

func createOrGetTags(db *gorm.DB) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(tagNames))
	for _, name := range tagNames {
		var tag models.Tag
		if err := db.Where(models.Tag{Name: name}).
			Attrs(models.Tag{Slug: models.Slugify(name)}).
			FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func createPosts(
	db *gorm.DB,
	factory *Factory,
	users []models.User,
	categories []models.Category,
	tags []models.Tag,
	count int,
) ([]models.Post, error) {
	posts := make([]models.Post, 0, count)

	for i := 0; i < count; i++ {
		user := users[factory.rng.Intn(len(users))]
		category := categories[factory.rng.Intn(len(categories))]

		post := factory.BuildPost(&user, func(p *models.Post) {
			p.CategoryID = &category.ID
			if factory.rng.Float64() < draftRatio {
				p.Status = models.PostStatusDraft
			}
		})

		if err := db.Create(post).Error; err != nil {
			return nil, err
		}

		// Attach up to three random tags.
		picked := factory.rng.Perm(len(tags))[:factory.rng.Intn(4)]
		for _, idx := range picked {
			if err := db.Model(post).Association("Tags").Append(&tags[idx]); err != nil {
				return nil, err
			}
		}

		posts = append(posts, *post)

		if i > 0 && i%100 == 0 {
			log.Printf("created %d posts...", i)
		}
	}

	return posts, nil
}

func createComments(db *gorm.DB, factory *Factory, users []models.User, posts []models.Post) error {
	for i := range posts {
		if posts[i].Status != models.PostStatusPublished {
			continue
		}
		for n := factory.rng.Intn(5); n > 0; n-- {
			user := users[factory.rng.Intn(len(users))]
			comment := factory.BuildComment(&user, &posts[i])
			if err := db.Create(comment).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
