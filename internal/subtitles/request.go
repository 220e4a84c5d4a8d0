package subtitles

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// AdditionalMode selects how the Chinese track is presented next to a second language.
type AdditionalMode string

const (
	// ModeWithPinyin shows only pinyin above the other language.
	ModeWithPinyin AdditionalMode = "with_pinyin"
	// ModeWithChineseAndPinyin shows characters and pinyin above the other language.
	ModeWithChineseAndPinyin AdditionalMode = "with_chinese_and_pinyin"
	// ModeWithoutPinyin shows the characters in cyan above the other language.
	ModeWithoutPinyin AdditionalMode = "without_pinyin"
)

// modePinyinOnly names runs without a second language in logs and history.
const modePinyinOnly = "pinyin"

// ParseAdditionalMode accepts the mode names with '-' or '_' separators.
func ParseAdditionalMode(value string) (AdditionalMode, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), "-", "_")
	switch mode := AdditionalMode(normalized); mode {
	case ModeWithPinyin, ModeWithChineseAndPinyin, ModeWithoutPinyin:
		return mode, nil
	case "":
		return ModeWithChineseAndPinyin, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want with_pinyin, with_chinese_and_pinyin or without_pinyin)", value)
	}
}

// AdditionalLanguage names the second subtitle merged under the Chinese one.
type AdditionalLanguage struct {
	Mode       AdditionalMode `validate:"required,oneof=with_pinyin with_chinese_and_pinyin without_pinyin"`
	SubtitleID string         `validate:"required,subtitle_id"`
}

// GenerateRequest selects the subtitles to combine. Ids are either numeric
// container track ids or sidecar ids of the form ext-<n>.
type GenerateRequest struct {
	ChineseID  string              `validate:"required,subtitle_id"`
	Additional *AdditionalLanguage `validate:"omitempty"`
	// Mux embeds the generated subtitle into MKV sources in addition to the
	// config's output.mux_into_mkv setting.
	Mux bool
}

// ModeName describes the request in logs and history.
func (r GenerateRequest) ModeName() string {
	if r.Additional == nil {
		return modePinyinOnly
	}
	return string(r.Additional.Mode)
}

func (r GenerateRequest) secondaryID() string {
	if r.Additional == nil {
		return ""
	}
	return r.Additional.SubtitleID
}

var subtitleIDPattern = regexp.MustCompile(`^(\d+|ext-\d+)$`)

func newRequestValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("subtitle_id", func(fl validator.FieldLevel) bool {
		return subtitleIDPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register subtitle_id validation: %v", err))
	}
	return v
}

func (s *Service) validateRequest(req GenerateRequest) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fe.Namespace()+" "+friendlyMessage(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(msgs, "; "))
}

func friendlyMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "subtitle_id":
		return fmt.Sprintf("%q is not a track id or ext-<n>", fe.Value())
	default:
		return "is invalid"
	}
}
