package ajax

import "context"

// LocalizerKey is the context key the locale template function reads.
var LocalizerKey = "localizer"

// LocalizerDefault is used when the context carries no Localizer.
var LocalizerDefault Localizer = FixedLocale("en_US")

// Localizer reports the locale views are rendered in.
type Localizer interface {
	Locale() string
}

// FixedLocale is a Localizer that always reports the same locale.
type FixedLocale string

func (l FixedLocale) Locale() string {
	return string(l)
}

// WithLocalizer returns a copy of ctx carrying loc.
func WithLocalizer(ctx context.Context, loc Localizer) context.Context {
	return context.WithValue(ctx, LocalizerKey, loc)
}

func getLocalizer(ctx context.Context) Localizer {
	if loc, ok := ctx.Value(LocalizerKey).(Localizer); ok {
		return loc
	}
	return LocalizerDefault
}
