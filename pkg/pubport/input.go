package pubport

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"
)

// input is the raw text shared by all extractors. JSON decoding happens at
// most once.
type input struct {
	text string

	decoded bool
	obj     map[string]interface{}
}

func newInput(raw string) *input {
	return &input{text: strings.TrimSpace(strings.TrimPrefix(raw, "\ufeff"))}
}

// object returns the input decoded as a JSON object. Numbers are kept as
// json.Number.
func (in *input) object() (map[string]interface{}, bool) {
	if !in.decoded {
		in.decoded = true
		if strings.HasPrefix(in.text, "{") && json.Valid([]byte(in.text)) {
			dec := json.NewDecoder(bytes.NewBufferString(in.text))
			dec.UseNumber()
			var obj map[string]interface{}
			if err := dec.Decode(&obj); err == nil {
				in.obj = obj
			}
		}
	}
	return in.obj, in.obj != nil
}

// decode decodes the input into v with field names matched as by
// encoding/json.
func (in *input) decode(v interface{}) error {
	return json.Unmarshal([]byte(in.text), v)
}

// token returns the input if it is a single whitespace free token.
func (in *input) token() (string, bool) {
	if in.text == "" || strings.IndexFunc(in.text, unicode.IsSpace) >= 0 {
		return "", false
	}
	return in.text, true
}

const prefixLength = 16

// shape describes what the input looks like for NotRecognized errors.
func (in *input) shape() string {
	switch {
	case in.text == "":
		return "empty"
	case strings.HasPrefix(in.text, "{"):
		if _, ok := in.object(); ok {
			return "json object"
		}
		return "invalid json"
	case strings.HasPrefix(in.text, "["):
		if json.Valid([]byte(in.text)) {
			return "json array"
		}
	}
	if strings.Contains(in.text, "(") && strings.Contains(in.text, ")") {
		return "descriptor-like text"
	}
	if _, ok := in.token(); ok {
		return "single token"
	}
	if strings.Contains(in.text, "\n") {
		return "multi-line text"
	}
	return "text"
}

// prefix returns the first characters of the input with non printable
// characters replaced.
func (in *input) prefix() string {
	runes := []rune(in.text)
	if len(runes) > prefixLength {
		runes = runes[:prefixLength]
	}
	for i, r := range runes {
		if !unicode.IsPrint(r) {
			runes[i] = '?'
		}
	}
	return string(runes)
}
