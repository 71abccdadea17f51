package database

import (
	"context"
	"fmt"
	"log/slog"

	"inkwell/internal/models"
	"inkwell/internal/service"
	"inkwell/internal/store"
)

type seedCategory struct {
	name        string
	description string
}

type seedPost struct {
	title      string
	excerpt    string
	content    string
	status     models.PostStatus
	categories []string
}

var seedCategories = []seedCategory{
	{"Web Development", "Articles about modern web development technologies and practices"},
	{"React", "Everything about React and its ecosystem"},
	{"Next.js", "Next.js tutorials, tips, and best practices"},
	{"TypeScript", "Type-safe JavaScript development with TypeScript"},
	{"Database", "Database design, optimization, and best practices"},
	{"DevOps", "Deployment, CI/CD, and infrastructure topics"},
}

var seedPosts = []seedPost{
	{
		title:      "Getting Started with Next.js 15",
		excerpt:    "Explore the new features and improvements in Next.js 15, including the stable App Router, performance enhancements, and better developer experience.",
		content:    "# Getting Started with Next.js 15\n\nThe App Router is now stable and is the recommended way to build Next.js applications.\n\n```bash\nnpx create-next-app@latest my-app\n```\n",
		status:     models.PostStatusPublished,
		categories: []string{"Next.js", "Web Development"},
	},
	{
		title:      "Building Type-Safe APIs with tRPC",
		excerpt:    "Learn how to build fully type-safe APIs using tRPC, with automatic type inference and excellent developer experience.",
		content:    "# Building Type-Safe APIs with tRPC\n\ntRPC lets client and server share types without schemas or code generation.\n",
		status:     models.PostStatusPublished,
		categories: []string{"Web Development", "TypeScript"},
	},
	{
		title:      "Modern Database Design with Drizzle ORM",
		excerpt:    "Discover how to use Drizzle ORM for modern, type-safe database operations with excellent performance and developer experience.",
		content:    "# Modern Database Design with Drizzle ORM\n\nDefine tables in code, generate migrations and query with full type inference.\n",
		status:     models.PostStatusPublished,
		categories: []string{"Database", "TypeScript"},
	},
	{
		title:      "Advanced React Patterns and Best Practices",
		excerpt:    "Explore advanced React patterns including compound components, custom hooks, state management, and performance optimization techniques.",
		content:    "# Advanced React Patterns and Best Practices\n\nCompound components, custom hooks and memoization keep large component trees manageable.\n",
		status:     models.PostStatusPublished,
		categories: []string{"React", "Web Development"},
	},
	{
		title:      "Deploying Full-Stack Applications to Production",
		excerpt:    "A comprehensive guide to deploying full-stack applications to production, covering deployment strategies, CI/CD, performance optimization, and security.",
		content:    "# Deploying Full-Stack Applications to Production\n\nShip through a CI pipeline, keep secrets out of the repo and put a rate limiter in front of the API.\n",
		status:     models.PostStatusPublished,
		categories: []string{"DevOps", "Web Development"},
	},
	{
		title:      "Draft: Understanding Server-Side Rendering",
		excerpt:    "An in-depth look at server-side rendering concepts and implementation strategies.",
		content:    "# Understanding Server-Side Rendering\n\nThis post is still being written.\n",
		status:     models.PostStatusDraft,
		categories: []string{"Web Development", "React"},
	},
}

// Seed populates the database with sample categories and posts. It goes
// through the services so slugs and links follow the normal rules, and it
// does nothing when any category already exists.
func Seed(ctx context.Context, db store.DB) error {
	categories := service.NewCategoryService(db)
	posts := service.NewPostService(db)

	existing, err := categories.List(ctx)
	if err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}
	if len(existing) > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	ids := make(map[string]int64, len(seedCategories))
	for _, sc := range seedCategories {
		description := sc.description
		c, err := categories.Create(ctx, service.CreateCategoryInput{Name: sc.name, Description: &description})
		if err != nil {
			return fmt.Errorf("seed category %q: %w", sc.name, err)
		}
		ids[sc.name] = c.ID
	}

	for _, sp := range seedPosts {
		categoryIDs := make([]int64, 0, len(sp.categories))
		for _, name := range sp.categories {
			categoryIDs = append(categoryIDs, ids[name])
		}
		excerpt := sp.excerpt
		_, err := posts.Create(ctx, service.CreatePostInput{
			Title:       sp.title,
			Content:     sp.content,
			Excerpt:     &excerpt,
			Status:      sp.status,
			CategoryIDs: categoryIDs,
		})
		if err != nil {
			return fmt.Errorf("seed post %q: %w", sp.title, err)
		}
	}

	slog.Info("database seeded", "categories", len(seedCategories), "posts", len(seedPosts))
	return nil
}
