package dto

import (
	"encoding/json"
	"strings"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Email はリクエスト中のメールアドレスです。
// 空文字と null は未入力として受け付け、必須チェックはユースケースに任せます。
// それ以外は openapi_types.Email の形式検証を通します。
type Email string

// UnmarshalJSON implements json.Unmarshaler.
func (e *Email) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if strings.TrimSpace(s) == "" {
		*e = ""
		return nil
	}
	var v openapi_types.Email
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	*e = Email(v)
	return nil
}
