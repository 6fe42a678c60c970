package scrape

import "strings"

// BlockType describes the kind of anti-bot page detected.
type BlockType string

const (
	BlockNone       BlockType = ""
	BlockCloudflare BlockType = "cloudflare"
	BlockCaptcha    BlockType = "captcha"
	BlockRateLimit  BlockType = "rate_limit"
)

// DetectBlock checks a rendered document for signs of an anti-bot wall. It
// only refines how failures are reported: a page that yields its fields is
// used even if it carries these markers.
func DetectBlock(doc string) (bool, BlockType) {
	lower := strings.ToLower(doc)

	// Cloudflare challenge page markers.
	if strings.Contains(lower, "checking your browser") ||
		strings.Contains(lower, "cf-browser-verification") ||
		strings.Contains(lower, "cloudflare") && strings.Contains(lower, "challenge") {
		return true, BlockCloudflare
	}

	// Captcha markers.
	if strings.Contains(lower, "captcha") ||
		strings.Contains(lower, "recaptcha") ||
		strings.Contains(lower, "hcaptcha") ||
		strings.Contains(doc, "驗證碼") {
		return true, BlockCaptcha
	}

	if strings.Contains(lower, "too many requests") ||
		strings.Contains(doc, "查詢次數過多") ||
		strings.Contains(doc, "請稍後再試") {
		return true, BlockRateLimit
	}

	return false, BlockNone
}

// classifyMissing upgrades a missing-element error to KindBlocked when the
// page it was looked for on is an anti-bot wall.
func classifyMissing(err *ExtractError, doc string) *ExtractError {
	if err == nil || err.Kind != KindMissing {
		return err
	}
	if blocked, bt := DetectBlock(doc); blocked {
		return &ExtractError{Field: err.Field, Kind: KindBlocked, Err: &blockError{typ: bt, cause: err.Err}}
	}
	return err
}

type blockError struct {
	typ   BlockType
	cause error
}

func (e *blockError) Error() string { return "blocked (" + string(e.typ) + "): " + e.cause.Error() }
func (e *blockError) Unwrap() error { return e.cause }
