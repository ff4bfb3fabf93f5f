package seed

import (
	"fmt"
	"log"
	"os"

	"bloghub/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// pageDefinition is the YAML shape for a seeded static page.
type pageDefinition struct {
	Title     string `yaml:"title"`
	Slug      string `yaml:"slug"`
	Body      string `yaml:"body"`
	Published bool   `yaml:"published"`
}

// builtinPages are created when no pages file is configured.
var builtinPages = []pageDefinition{
	{
		Title:     "About",
		Slug:      "about",
		Body:      "BlogHub is a community blog. This page is editable from the admin area.",
		Published: true,
	},
	{
		Title:     "Contact",
		Slug:      "contact",
		Body:      "Reach the editors at editors@example.com.",
		Published: true,
	},
}

// Pages upserts static pages, reading definitions from the YAML file at
// path when it is non-empty. Existing pages are matched by slug and left
// untouched, so operator edits survive reseeding.
func Pages(db *gorm.DB, path string) error {
	defs := builtinPages
	if path != "" {
		loaded, err := loadPageDefinitions(path)
		if err != nil {
			return err
		}
		defs = loaded
	}

	for _, def := range defs {
		if def.Slug == "" || def.Title == "" {
			return fmt.Errorf("page definition missing slug or title: %+v", def)
		}

		var page models.Page
		err := db.Where(models.Page{Slug: def.Slug}).
			Attrs(models.Page{
				Title:     def.Title,
				Body:      def.Body,
				Published: def.Published,
			}).
			FirstOrCreate(&page).Error
		if err != nil {
			return fmt.Errorf("seed page %q: %w", def.Slug, err)
		}
	}

	log.Printf("%d static pages ensured", len(defs))
	return nil
}

func loadPageDefinitions(path string) ([]pageDefinition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pages file: %w", err)
	}

	var defs []pageDefinition
	if err := yaml.Unmarshal(raw, &defs); err != nil {
		return nil, fmt.Errorf("parse pages file: %w", err)
	}
	return defs, nil
}
