package scaffold

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"wpstarter.dev/wpstarter/internal/pipeline"
	"wpstarter.dev/wpstarter/internal/prompt"
	"wpstarter.dev/wpstarter/internal/utils"
)

// IdentityQuestions are asked first; their defaults come from the configuration
func IdentityQuestions(author, authorURL string) []prompt.Question {
	return []prompt.Question{
		{
			Name:    string(FieldAuthor),
			Message: "Who's the theme author?",
			Default: author,
		},
		{
			Name:     string(FieldAuthorURL),
			Message:  "What's the author website?",
			Default:  authorURL,
			Validate: utils.ValidateURL,
		},
		{
			Name:     string(FieldThemeName),
			Message:  "What's the theme name?",
			Validate: utils.NotEmpty("Theme name"),
		},
	}
}

// EnvironmentQuestions derive their defaults from the theme slug
func EnvironmentQuestions(slug string) []prompt.Question {
	return []prompt.Question{
		{
			Name:     string(FieldThemeFolder),
			Message:  "What's the theme folder name?",
			Default:  slug,
			Validate: validateFolder,
		},
		{
			Name:     string(FieldDBName),
			Message:  "What's the database name?",
			Default:  "wp_" + slug,
			Validate: utils.NotEmpty("Database name"),
		},
		{
			Name:     string(FieldDBUser),
			Message:  "What's the database user?",
			Default:  "root",
			Validate: utils.NotEmpty("Database user"),
		},
		{
			Name:    string(FieldDBPassword),
			Message: "What's the database password?",
			Secret:  true,
		},
		{
			Name:     string(FieldDBHost),
			Message:  "What's the database host?",
			Default:  "localhost",
			Validate: utils.NotEmpty("Database host"),
		},
		{
			Name:     string(FieldDBTablePrefix),
			Message:  "What's the database table prefix?",
			Default:  "wp_",
			Validate: utils.NotEmpty("Database prefix"),
			Help:     "Every WordPress table name starts with this prefix",
		},
	}
}

// validateFolder accepts a single path segment; the folder is joined under wp-content/themes
func validateFolder(input string) error {
	if err := utils.NotEmpty("Theme folder name")(input); err != nil {
		return err
	}
	if input == "." || input == ".." || strings.ContainsAny(input, `/\`) || filepath.Base(input) != input {
		return errors.New("Theme folder name must be a single directory name")
	}
	return nil
}

func (s *scaffolder) collectIdentity(ctx context.Context, st *pipeline.State) error {
	cfg := s.ctx.Config
	return s.ask(ctx, st, IdentityQuestions(cfg.Author, cfg.AuthorURL))
}

func (s *scaffolder) collectEnvironment(ctx context.Context, st *pipeline.State) error {
	slug := utils.Slugify(st.Get(FieldThemeName))
	return s.ask(ctx, st, EnvironmentQuestions(slug))
}

// ask puts each question to the prompter and stores the answer under the question's name
func (s *scaffolder) ask(ctx context.Context, st *pipeline.State, questions []prompt.Question) error {
	for _, q := range questions {
		answer, err := s.deps.Prompter.Ask(ctx, q)
		if err != nil {
			return err
		}
		if err := st.Set(pipeline.Field(q.Name), answer); err != nil {
			return err
		}
	}
	return nil
}
