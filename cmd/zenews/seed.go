package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/ze-news/internal/constants"
	"github.com/ze-news/internal/logger"
	"github.com/ze-news/internal/provider"
	"github.com/ze-news/internal/service"

	"github.com/spf13/cobra"
)

var seedCategories = []service.CategoryInput{
	{Name: "Politics", Slug: "politics", SortOrder: 30},
	{Name: "Technology", Slug: "technology", SortOrder: 20},
	{Name: "Media Literacy", Slug: "media-literacy", SortOrder: 10},
}

var seedArticles = []service.CreateArticleInput{
	{
		Title:         "Welcome to ZE News",
		ContentFormat: constants.ContentFormatMarkdown,
		Content:       "# Welcome\n\nZE News publishes **verified** reporting and open fact-checks.",
		Categories:    []string{"media-literacy"},
		Status:        constants.ArticleStatusPublished,
		Featured:      true,
	},
	{
		Title:         "How we check claims",
		ContentFormat: constants.ContentFormatMarkdown,
		Content:       "Readers submit a claim, an editor reviews the sources and publishes a verdict.",
		Categories:    []string{"media-literacy", "politics"},
		Status:        constants.ArticleStatusPublished,
	},
	{
		Title:      "Draft: the week in technology",
		Content:    "<p>Work in progress.</p>",
		Categories: []string{"technology"},
		Status:     constants.ArticleStatusDraft,
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "写入演示分类、文章与课程，可重复执行",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openMigrated()
		if err != nil {
			return err
		}
		c, err := provider.NewContainer(cfg, db)
		if err != nil {
			return err
		}
		defer c.Close()
		return runSeed(cmd.Context(), c, func(format string, a ...interface{}) {
			fmt.Fprintf(cmd.OutOrStdout(), format+"\n", a...)
		})
	},
}

func runSeed(ctx context.Context, c *provider.Container, report func(string, ...interface{})) error {
	if ctx == nil {
		ctx = context.Background()
	}
	for _, in := range seedCategories {
		if _, err := c.CategoryService.Create(in); err != nil {
			if errors.Is(err, service.ErrSlugExists) {
				continue
			}
			return fmt.Errorf("seed category %s: %w", in.Slug, err)
		}
		report("category %s", in.Slug)
	}

	for _, in := range seedArticles {
		slug := service.GenerateSlug(in.Title)
		if existing, err := c.ArticleRepo.GetBySlug(slug, false); err != nil {
			return err
		} else if existing != nil {
			continue
		}
		article, err := c.ArticleService.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("seed article %q: %w", in.Title, err)
		}
		report("article %s (%s)", article.Slug, article.Status)
	}

	course, err := c.CourseService.Create("", service.CourseInput{
		Title:       "Verification Basics",
		Description: "A short course on checking sources before sharing.",
		Status:      constants.CourseStatusPublished,
	})
	if errors.Is(err, service.ErrSlugExists) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed course: %w", err)
	}
	module, err := c.CourseService.CreateModule(course.ID, service.ModuleInput{Title: "Reading a source", SortOrder: 1})
	if err != nil {
		return fmt.Errorf("seed module: %w", err)
	}
	if _, err := c.CourseService.CreateVideo(course.ID, module.ID, service.VideoInput{
		Title:           "Who published this?",
		VideoURL:        "/uploads/demo/who-published.mp4",
		DurationSeconds: 240,
	}); err != nil {
		return fmt.Errorf("seed video: %w", err)
	}
	if _, err := c.CourseService.CreateMaterial(course.ID, module.ID, service.MaterialInput{
		Title:    "Source checklist",
		FileURL:  "/uploads/demo/source-checklist.pdf",
		FileType: "pdf",
	}); err != nil {
		return fmt.Errorf("seed material: %w", err)
	}
	report("course %s", course.Slug)
	logger.Infow("cli_seed_done", "course_id", course.ID)
	return nil
}
