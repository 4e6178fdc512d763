package valueobjects

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"agentxrp-backend/domain/config"
	pkgerrors "agentxrp-backend/pkg/errors"
)

// PostContent is the validated title, body and link of a post
type PostContent struct {
	title string
	body  string
	link  string
}

// NewPostContent creates content with validation using default configuration
func NewPostContent(title, body, link string) (PostContent, error) {
	return NewPostContentWithConfig(title, body, link, config.DefaultDomainConfig())
}

// NewPostContentWithConfig creates content with validation and configuration
func NewPostContentWithConfig(title, body, link string, cfg *config.DomainConfig) (PostContent, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	title = strings.TrimSpace(title)
	link = strings.TrimSpace(link)

	titleLength := utf8.RuneCountInString(title)
	if titleLength < cfg.MinTitleLength {
		return PostContent{}, pkgerrors.NewValidationError(
			fmt.Sprintf("title required (%d+ chars)", cfg.MinTitleLength))
	}
	if titleLength > cfg.MaxTitleLength {
		return PostContent{}, pkgerrors.NewValidationError(
			fmt.Sprintf("title exceeds maximum length of %d characters", cfg.MaxTitleLength))
	}
	if utf8.RuneCountInString(body) > cfg.MaxContentLength {
		return PostContent{}, pkgerrors.NewValidationError(
			fmt.Sprintf("content exceeds maximum length of %d characters", cfg.MaxContentLength))
	}
	if link != "" {
		if len(link) > cfg.MaxURLLength {
			return PostContent{}, pkgerrors.NewValidationError("url is too long")
		}
		u, err := url.Parse(link)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return PostContent{}, pkgerrors.NewValidationError("url must be absolute")
		}
	}

	return PostContent{
		title: title,
		body:  body,
		link:  link,
	}, nil
}

// Title returns the post title
func (c PostContent) Title() string {
	return c.title
}

// Body returns the post body
func (c PostContent) Body() string {
	return c.body
}

// URL returns the optional link
func (c PostContent) URL() string {
	return c.link
}

// Summary returns a truncated summary of the content
func (c PostContent) Summary(maxLength int) string {
	if maxLength <= 0 {
		return ""
	}

	combined := c.title
	if c.body != "" {
		combined += ": " + c.body
	}

	if utf8.RuneCountInString(combined) <= maxLength {
		return combined
	}
	if maxLength <= 3 {
		return string([]rune(combined)[:maxLength])
	}

	runes := []rune(combined)
	return string(runes[:maxLength-3]) + "..."
}
