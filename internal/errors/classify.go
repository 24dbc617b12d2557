package errors

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Category groups external-API failures into user-presentable buckets
type Category string

const (
	CategoryRateLimit Category = "rate_limit"
	CategoryQuota     Category = "quota"
	CategoryAuth      Category = "auth"
	CategoryTimeout   Category = "timeout"
	CategoryGeneric   Category = "generic"
)

// genericDetailLimit caps how much raw provider error text may reach a user
const genericDetailLimit = 200

var retryAfterPattern = regexp.MustCompile(`(?i)try again in (\d+) minutes?`)

// Classification is the result of mapping a raw error to a user-facing category
type Classification struct {
	Category          Category
	RetryAfterMinutes int    // 0 when the provider gave no retry hint
	Detail            string // truncated raw text, set for CategoryGeneric only
}

// Classify maps a raw error from any external call into an error category.
// Matching is first-match-wins, case-insensitive substring over the error text.
func Classify(err error) Classification {
	if err == nil {
		return Classification{Category: CategoryGeneric}
	}

	raw := err.Error()
	lower := strings.ToLower(raw)

	switch {
	case strings.Contains(lower, "rate_limit") || strings.Contains(lower, "429"):
		c := Classification{Category: CategoryRateLimit}
		if m := retryAfterPattern.FindStringSubmatch(raw); m != nil {
			if minutes, err := strconv.Atoi(m[1]); err == nil {
				c.RetryAfterMinutes = minutes
			}
		}
		return c
	case strings.Contains(lower, "quota") || strings.Contains(lower, "insufficient"):
		return Classification{Category: CategoryQuota}
	case strings.Contains(lower, "auth") || strings.Contains(lower, "401") || strings.Contains(lower, "403"):
		return Classification{Category: CategoryAuth}
	case strings.Contains(lower, "timeout"):
		return Classification{Category: CategoryTimeout}
	default:
		detail := raw
		if len(detail) > genericDetailLimit {
			detail = detail[:genericDetailLimit]
		}
		return Classification{Category: CategoryGeneric, Detail: detail}
	}
}

// UserMessage renders the fixed user-facing template for the classification
func (c Classification) UserMessage() string {
	switch c.Category {
	case CategoryRateLimit:
		if c.RetryAfterMinutes > 0 {
			return fmt.Sprintf(
				"The AI service is rate limited. Please wait %d minute(s) and try again, or upgrade your plan at https://platform.openai.com/account/billing",
				c.RetryAfterMinutes)
		}
		return "The AI service is rate limited. Please wait a few minutes and try again, or upgrade your plan at https://platform.openai.com/account/billing"
	case CategoryQuota:
		return "The AI service quota has been exhausted. Please check your plan and billing details."
	case CategoryAuth:
		return "Authentication with the AI service failed. Please verify the configured API keys."
	case CategoryTimeout:
		return "The request to the AI service timed out. Please try again with a shorter file."
	default:
		if c.Detail != "" {
			return "Processing failed: " + c.Detail
		}
		return "Processing failed due to an unexpected error."
	}
}

// UserMessage is a convenience that classifies err and renders its template
func UserMessage(err error) string {
	return Classify(err).UserMessage()
}
