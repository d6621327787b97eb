package validator

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// CustomValidator は拡張バリデーション機能を提供
type CustomValidator struct {
	validator           *validator.Validate
	tagPattern          *regexp.Regexp
	hexColorPattern     *regexp.Regexp
	sqlInjectionPattern *regexp.Regexp
}

// ValidationError はバリデーションエラーの詳細情報
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// ValidationErrors は複数のバリデーションエラー
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (ve ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed: %d errors", len(ve.Errors))
}

// NewCustomValidator creates a new custom validator instance
func NewCustomValidator() *CustomValidator {
	v := validator.New()
	cv := &CustomValidator{
		validator:           v,
		tagPattern:          regexp.MustCompile(`^[a-z0-9_]+$`), // ハッシュタグ由来の小文字名のみ
		hexColorPattern:     regexp.MustCompile(`^#[0-9a-fA-F]{6}$`),
		sqlInjectionPattern: regexp.MustCompile(`(?i)(\bunion\s+select\b|\bselect\s+.*\bfrom\b|\binsert\s+into\b|\bupdate\s+.*\bset\b|\bdelete\s+from\b|\bdrop\s+table\b|<script|</script>|onload\s*=|onerror\s*=|--|/\*|\*/)`),
	}

	// カスタムバリデーションルールを登録
	v.RegisterValidation("safe_text", cv.validateSafeText)
	v.RegisterValidation("safe_tag", cv.validateSafeTag)
	v.RegisterValidation("hex_color", cv.validateHexColor)
	v.RegisterValidation("no_sql_injection", cv.validateNoSQLInjection)

	return cv
}

// Validate validates a struct and returns detailed error information
func (cv *CustomValidator) Validate(s interface{}) error {
	if err := cv.validator.Struct(s); err != nil {
		var validationErrors []ValidationError

		for _, err := range err.(validator.ValidationErrors) {
			ve := ValidationError{
				Field: err.Field(),
				Tag:   err.Tag(),
				Value: err.Value(),
			}

			// カスタムエラーメッセージを生成
			ve.Message = cv.generateErrorMessage(err)
			validationErrors = append(validationErrors, ve)
		}

		return ValidationErrors{Errors: validationErrors}
	}
	return nil
}

// カスタムバリデーション関数

func (cv *CustomValidator) validateSafeText(fl validator.FieldLevel) bool {
	value := fl.Field().String()

	// SQLインジェクションパターンをチェック
	if cv.sqlInjectionPattern.MatchString(value) {
		return false
	}

	// 基本的な文字チェック（制御文字の排除）
	for _, r := range value {
		if r < 32 && r != 9 && r != 10 && r != 13 { // タブ、改行、復帰以外の制御文字を拒否
			return false
		}
	}

	return true
}

func (cv *CustomValidator) validateSafeTag(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}

	return cv.tagPattern.MatchString(value)
}

func (cv *CustomValidator) validateHexColor(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 任意フィールド
	}

	return cv.hexColorPattern.MatchString(value)
}

func (cv *CustomValidator) validateNoSQLInjection(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return !cv.sqlInjectionPattern.MatchString(value)
}

// generateErrorMessage generates user-friendly error messages
func (cv *CustomValidator) generateErrorMessage(err validator.FieldError) string {
	field := err.Field()
	tag := err.Tag()
	value := err.Value()

	switch tag {
	case "required":
		return fmt.Sprintf("%s は必須項目です", field)
	case "max":
		return fmt.Sprintf("%s は %s 文字以下で入力してください", field, err.Param())
	case "min":
		return fmt.Sprintf("%s は %s 文字以上で入力してください", field, err.Param())
	case "oneof":
		return fmt.Sprintf("%s は有効な値を選択してください (許可された値: %s)", field, err.Param())
	case "safe_text":
		return fmt.Sprintf("%s に不正な文字が含まれています", field)
	case "safe_tag":
		return fmt.Sprintf("%s は小文字英数字とアンダースコアのみ使用できます", field)
	case "hex_color":
		return fmt.Sprintf("%s は #RRGGBB 形式で入力してください", field)
	case "no_sql_injection":
		return fmt.Sprintf("%s に危険なパターンが検出されました", field)
	default:
		return fmt.Sprintf("%s が無効です (値: %v)", field, value)
	}
}

// ValidateID validates ID parameters
func (cv *CustomValidator) ValidateID(idStr string) (int, error) {
	// 数値以外の文字をチェック
	if !regexp.MustCompile(`^\d+$`).MatchString(idStr) {
		return 0, fmt.Errorf("ID must be a positive integer")
	}

	// 長さチェック（異常に長いIDを防ぐ）
	if len(idStr) > 10 {
		return 0, fmt.Errorf("ID is too long")
	}

	// パースを試行
	var id int
	if _, err := fmt.Sscanf(idStr, "%d", &id); err != nil {
		return 0, fmt.Errorf("invalid ID format")
	}

	// 正の値チェック
	if id <= 0 {
		return 0, fmt.Errorf("ID must be positive")
	}

	return id, nil
}
