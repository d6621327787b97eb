package validator_test

import (
	"testing"

	"thoughtstream/src/validator"

	"github.com/stretchr/testify/assert"
)

type noteInput struct {
	Content string `validate:"required,min=1,safe_text,no_sql_injection"`
}

type tagInput struct {
	Name  string `validate:"omitempty,safe_tag"`
	Color string `validate:"omitempty,hex_color"`
}

func TestCustomValidator_SafeText(t *testing.T) {
	cv := validator.NewCustomValidator()

	tests := []struct {
		name      string
		content   string
		shouldErr bool
	}{
		{"通常のテキスト", "買い物リスト #errands", false},
		{"改行とタブを含むテキスト", "line1\nline2\tindent", false},
		{"制御文字を含むテキスト", "bad\x00text", true},
		{"SQLインジェクション試行", "x UNION SELECT password FROM users", true},
		{"scriptタグ", "<script>alert(1)</script>", true},
		{"SQLコメント", "note -- comment", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cv.Validate(noteInput{Content: tt.content})

			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCustomValidator_SafeTag(t *testing.T) {
	cv := validator.NewCustomValidator()

	tests := []struct {
		name      string
		tag       string
		shouldErr bool
	}{
		{"小文字英数字", "project2", false},
		{"アンダースコア", "side_project", false},
		{"空文字は許可", "", false},
		{"大文字は拒否", "Project", true},
		{"ハイフンは拒否", "side-project", true},
		{"スペースは拒否", "my tag", true},
		{"記号は拒否", "tag!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cv.Validate(tagInput{Name: tt.tag})

			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCustomValidator_HexColor(t *testing.T) {
	cv := validator.NewCustomValidator()

	tests := []struct {
		name      string
		color     string
		shouldErr bool
	}{
		{"小文字16進", "#6366f1", false},
		{"大文字16進", "#EF4444", false},
		{"空文字は許可", "", false},
		{"シャープなし", "6366f1", true},
		{"3桁短縮形は拒否", "#fff", true},
		{"16進以外の文字", "#zzzzzz", true},
		{"色名", "red", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cv.Validate(tagInput{Color: tt.color})

			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCustomValidator_ValidateID(t *testing.T) {
	cv := validator.NewCustomValidator()

	tests := []struct {
		name      string
		id        string
		expected  int
		shouldErr bool
	}{
		{"正常なID", "42", 42, false},
		{"ゼロは拒否", "0", 0, true},
		{"負数は拒否", "-1", 0, true},
		{"数値以外", "abc", 0, true},
		{"小数", "1.5", 0, true},
		{"長すぎるID", "12345678901", 0, true},
		{"空文字", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := cv.ValidateID(tt.id)

			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, id)
			}
		})
	}
}

func TestValidationErrors_Message(t *testing.T) {
	cv := validator.NewCustomValidator()

	err := cv.Validate(noteInput{Content: ""})
	assert.Error(t, err)

	ve, ok := err.(validator.ValidationErrors)
	assert.True(t, ok)
	assert.NotEmpty(t, ve.Errors)
	assert.Equal(t, "Content", ve.Errors[0].Field)
	assert.Equal(t, "required", ve.Errors[0].Tag)
	assert.Contains(t, ve.Error(), "validation failed")
}
