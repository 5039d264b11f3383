package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for message keys. Keys are issue
// codes optionally refined by a qualifier (for example "too_small.string" or
// "invalid_type.required"). data provides values for {placeholders} such as
// "expected", "received", "minimum".
type Translator interface {
	Message(key string, data map[string]string) string
}

var dictionaries = map[string]map[string]string{
	"en": {
		"invalid_type":                "Expected {expected}, received {received}",
		"invalid_type.required":       "Required",
		"invalid_literal":             "Invalid literal value, expected {expected}",
		"invalid_string":              "Invalid {validation}",
		"invalid_string.regex":        "Invalid",
		"invalid_string.startswith":   "Invalid input: must start with \"{expected}\"",
		"invalid_string.endswith":     "Invalid input: must end with \"{expected}\"",
		"too_small.string":            "String must contain at least {minimum} character(s)",
		"too_small.string.exact":      "String must contain exactly {minimum} character(s)",
		"too_small.string.exclusive":  "String must contain over {minimum} character(s)",
		"too_small.number":            "Number must be greater than or equal to {minimum}",
		"too_small.number.exclusive":  "Number must be greater than {minimum}",
		"too_small.array":             "Array must contain at least {minimum} element(s)",
		"too_small.array.exact":       "Array must contain exactly {minimum} element(s)",
		"too_small.array.exclusive":   "Array must contain more than {minimum} element(s)",
		"too_small.date":              "Date must be greater than or equal to {minimum}",
		"too_small.date.exclusive":    "Date must be greater than {minimum}",
		"too_big.string":              "String must contain at most {maximum} character(s)",
		"too_big.string.exact":        "String must contain exactly {maximum} character(s)",
		"too_big.string.exclusive":    "String must contain under {maximum} character(s)",
		"too_big.number":              "Number must be less than or equal to {maximum}",
		"too_big.number.exclusive":    "Number must be less than {maximum}",
		"too_big.array":               "Array must contain at most {maximum} element(s)",
		"too_big.array.exact":         "Array must contain exactly {maximum} element(s)",
		"too_big.array.exclusive":     "Array must contain less than {maximum} element(s)",
		"too_big.date":                "Date must be smaller than or equal to {maximum}",
		"too_big.date.exclusive":      "Date must be smaller than {maximum}",
		"unrecognized_keys":           "Unrecognized key(s) in object: {keys}",
		"invalid_union":               "Invalid input",
		"invalid_union_discriminator": "Invalid discriminator value. Expected {options}",
		"not_multiple_of":             "Number must be a multiple of {multipleOf}",
		"custom":                      "Invalid input",
		"parse_error":                 "Malformed input: {cause}",
		"duplicate_key":               "Duplicate key: {cause}",
	},
	"ja": {
		"invalid_type":                "型が不正です（期待: {expected}、実際: {received}）",
		"invalid_type.required":       "必須です",
		"invalid_literal":             "リテラル値が不正です（期待: {expected}）",
		"invalid_string":              "{validation} の形式が不正です",
		"too_small.string":            "{minimum} 文字以上で入力してください",
		"too_small.number":            "{minimum} 以上の値を入力してください",
		"too_small.array":             "{minimum} 件以上の要素が必要です",
		"too_big.string":              "{maximum} 文字以下で入力してください",
		"too_big.number":              "{maximum} 以下の値を入力してください",
		"too_big.array":               "{maximum} 件以下の要素にしてください",
		"unrecognized_keys":           "未知のキーです: {keys}",
		"invalid_union":               "いずれの候補にも一致しません",
		"invalid_union_discriminator": "判別子の値が不正です（期待: {options}）",
		"not_multiple_of":             "{multipleOf} の倍数を入力してください",
		"custom":                      "入力が不正です",
		"parse_error":                 "入力を解析できません: {cause}",
		"duplicate_key":               "キーが重複しています",
	},
}

// dictTranslator is the built-in dictionary-based Translator. Keys missing
// from a language fall back to English, then to coarser keys
// ("too_small.string.exact" -> "too_small.string" -> "too_small").
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(key string, data map[string]string) string {
	for k := key; k != ""; k = parentKey(k) {
		if tpl, ok := dictionaries[t.lang][k]; ok {
			return expand(tpl, data)
		}
		if tpl, ok := dictionaries["en"][k]; ok && t.lang != "en" {
			return expand(tpl, data)
		}
	}
	return key
}

func parentKey(k string) string {
	i := strings.LastIndexByte(k, '.')
	if i < 0 {
		return ""
	}
	return k[:i]
}

func expand(tpl string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(tpl, "{") {
		return tpl
	}
	pairs := make([]string, 0, 2*len(data))
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given key using the current Translator.
func T(key string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(key, data)
}
