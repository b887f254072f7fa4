package grammar

import (
	"io"
	"regexp"
	"slices"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/packrat/packrat"
	"github.com/ardnew/packrat/reader"
)

var (
	// ErrExpectedKey is recorded where a config key should begin.
	ErrExpectedKey = reader.NewErrorType("expected key")
	// ErrExpectedValue is recorded where a config value should begin.
	ErrExpectedValue = reader.NewErrorType("expected value")

	keyPattern     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*`)
	numberPattern  = regexp.MustCompile(`^[-+]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][-+]?[0-9]+)?`)
	commentPattern = regexp.MustCompile(`^#[^\n]*`)
)

// Entry is one `key = value` pair of a config file. Value is a string,
// int64, float64 or bool.
type Entry struct {
	Key   string `json:"key"   yaml:"key"`
	Value any    `json:"value" yaml:"value"`
}

// Config is the ordered list of entries of a config file.
type Config struct {
	Entries []Entry `json:"entries" yaml:"entries"`
}

// Lookup returns the value of the last entry for key.
func (c Config) Lookup(key string) (any, bool) {
	for i := len(c.Entries) - 1; i >= 0; i-- {
		if c.Entries[i].Key == key {
			return c.Entries[i].Value, true
		}
	}

	return nil, false
}

// Map returns the entries keyed by name. Later entries replace earlier ones.
func (c Config) Map() map[string]any {
	m := make(map[string]any, len(c.Entries))
	for _, e := range c.Entries {
		m[e.Key] = e.Value
	}

	return m
}

// NewConfigParser returns a parser of config files:
//
//	config := item* END
//	item   := comment | key '=' CUT value ';'?
//	value  := &QUOTE CUT string | number | 'true' | 'false' | word
//
// Numbers, booleans and words must not run into other word runes, so
// `true1` is the word "true1".
func NewConfigParser(opts ...packrat.Option) (*packrat.Parser[Config], error) {
	rs := packrat.NewRules[input]()

	var (
		config  = packrat.NewSymbol[Config]("config")
		items   = packrat.NewSymbol[[]*Entry]("items")
		item    = packrat.NewSymbol[*Entry]("item")
		comment = packrat.NewSymbol[string]("comment")
		key     = packrat.NewSymbol[string]("key")
		value   = packrat.NewSymbol[any]("value")
		quoted  = packrat.NewSymbol[string]("quoted")
		number  = packrat.NewSymbol[string]("number")
		boolean = packrat.NewSymbol[bool]("boolean")
		word    = packrat.NewSymbol[string]("word")
	)

	boundary := packrat.NegativeLookahead(packrat.TermFunc[input](
		func(st packrat.State[input], _ *packrat.Scope, _ packrat.Cut) (bool, error) {
			r := st.Reader()

			return r.CanRead() && reader.IsUnquotedRune(r.Peek()), nil
		}))

	packrat.Define(rs, config,
		packrat.Sequence(packrat.Repeated(packrat.Lookup(rs, item), items, 0), packrat.End[input]()),
		packrat.Returning[input](func(sc *packrat.Scope) Config {
			var c Config

			for _, e := range packrat.MustGet(sc, items) {
				if e != nil {
					c.Entries = append(c.Entries, *e)
				}
			}

			return c
		}),
	)

	packrat.Define(rs, item,
		packrat.AnyOf(
			packrat.RefTo(rs, comment),
			packrat.Sequence(
				packrat.RefTo(rs, key),
				packrat.Char[input]('='),
				packrat.Cutting[input](),
				packrat.RefTo(rs, value),
				packrat.Optional(packrat.Char[input](';')),
			),
		),
		packrat.Returning[input](func(sc *packrat.Scope) *Entry {
			k, ok := packrat.Get(sc, key)
			if !ok {
				return nil
			}

			return &Entry{Key: k, Value: packrat.MustGet(sc, value)}
		}),
	)

	packrat.Set(rs, comment, packrat.PatternRule[input](commentPattern, ErrExpectedKey))
	packrat.Set(rs, key, packrat.PatternRule[input](keyPattern, ErrExpectedKey))

	packrat.Define(rs, value,
		packrat.AnyOf(
			packrat.Sequence(
				packrat.PositiveLookahead(packrat.Char[input]('"', '\'')),
				packrat.Cutting[input](),
				packrat.RefTo(rs, quoted),
			),
			packrat.Sequence(packrat.RefTo(rs, number), boundary),
			packrat.Sequence(packrat.Literal[input]("true"), boundary, packrat.Always[input](boolean, true)),
			packrat.Sequence(packrat.Literal[input]("false"), boundary, packrat.Always[input](boolean, false)),
			packrat.RefTo(rs, word),
		),
		func(_ packrat.State[input], sc *packrat.Scope) packrat.Result[any] {
			switch {
			case packrat.Has(sc, quoted):
				return packrat.Success[any](packrat.MustGet(sc, quoted))
			case packrat.Has(sc, number):
				return packrat.Success(parseNumber(packrat.MustGet(sc, number)))
			case packrat.Has(sc, boolean):
				return packrat.Success[any](packrat.MustGet(sc, boolean))
			default:
				return packrat.Success[any](packrat.MustGet(sc, word))
			}
		},
	)

	packrat.Set(rs, quoted, packrat.StringRule[input](ErrExpectedValue))
	packrat.Set(rs, number, packrat.PatternRule[input](numberPattern, ErrExpectedValue))
	packrat.Set(rs, word, packrat.UnquotedRule[input](1, ErrExpectedValue))

	return packrat.NewParser(rs, config, opts...)
}

func parseNumber(text string) any {
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return i
	}

	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f
	}

	return text
}

var configParser = func() *packrat.Parser[Config] {
	p, err := NewConfigParser()
	if err != nil {
		panic(err)
	}

	return p
}()

// configCache holds parsed config files keyed by the xxh3 hash of their
// text.
var configCache sync.Map

// ParseConfig parses the config file text s. Each distinct text is parsed
// once.
func ParseConfig(s string) (Config, error) {
	key := xxh3.HashString(s)

	if v, ok := configCache.Load(key); ok {
		return v.(Config).clone(), nil
	}

	c, err := configParser.ParseString(s)
	if err != nil {
		return Config{}, err
	}

	configCache.Store(key, c)

	return c.clone(), nil
}

// ClearConfigCache forgets every config file parsed by [ParseConfig].
func ClearConfigCache() { configCache.Clear() }

func (c Config) clone() Config { return Config{Entries: slices.Clone(c.Entries)} }

// ReadConfig parses the config file read from r.
func ReadConfig(r io.Reader) (Config, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return Config{}, err
	}

	return ParseConfig(string(data))
}
