package ajax

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/url"
	"reflect"
	"strings"
	"time"
	"unicode"
)

// DefaultTemplateFuncMap is available to every view of a TemplateRenderer.
var DefaultTemplateFuncMap = template.FuncMap{
	"safeHTML": safeHTML,
	"safeJS":   safeJS,
	"toJSON":   toJSON,
	// String functions
	"upper":      strings.ToUpper,
	"lower":      strings.ToLower,
	"trimSpace":  strings.TrimSpace,
	"hasPrefix":  strings.HasPrefix,
	"hasSuffix":  strings.HasSuffix,
	"contains":   strings.Contains,
	"replace":    strings.ReplaceAll,
	"split":      strings.Split,
	"join":       strings.Join,
	"title":      title,
	"substr":     substr,
	"ucfirst":    ucfirst,
	"urlencode":  url.QueryEscape,
	"formatDate": formatDate,
	"now":        time.Now,
	// List functions
	"first": first,
	"last":  last,
	// Map functions
	"hasKey": hasKey,
	// Debug functions
	"debug": debug,
}

func safeHTML(s string) template.HTML {
	return template.HTML(s)
}

func safeJS(s string) template.JS {
	return template.JS(s)
}

// toJSON encodes v for use inside data attributes.
func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ucfirst capitalizes the first character of the string.
func ucfirst(s string) string {
	if s == "" {
		return ""
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// title capitalizes the first character of each word in the string.
func title(s string) string {
	runes := []rune(s)
	capitalizeNext := true
	for i, r := range runes {
		switch {
		case unicode.IsSpace(r):
			capitalizeNext = true
		case capitalizeNext:
			runes[i] = unicode.ToUpper(r)
			capitalizeNext = false
		default:
			runes[i] = unicode.ToLower(r)
		}
	}
	return string(runes)
}

// substr returns at most length runes of s starting at start.
func substr(s string, start, length int) string {
	runes := []rune(s)
	if start < 0 || start >= len(runes) || length <= 0 {
		return ""
	}
	return string(runes[start:min(start+length, len(runes))])
}

// first returns the first element of a slice or array, nil when it is empty.
func first(list any) any {
	return nth(list, 0)
}

// last returns the last element of a slice or array, nil when it is empty.
func last(list any) any {
	v := reflect.ValueOf(list)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil
	}
	return nth(list, v.Len()-1)
}

func nth(list any, i int) any {
	v := reflect.ValueOf(list)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil
	}
	if i < 0 || i >= v.Len() {
		return nil
	}
	return v.Index(i).Interface()
}

func hasKey(m map[string]any, key string) bool {
	_, ok := m[key]
	return ok
}

func formatDate(t time.Time, layout string) string {
	return t.Format(layout)
}

func debug(v any) string {
	return fmt.Sprintf("%+v", v)
}
