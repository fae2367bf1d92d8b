// Package config loads .finditrc.toml, supplying defaults for the
// handful of flags the CLI lets a user pin once instead of repeating
// on every invocation (§ ambient Configuration). CLI flags always take
// precedence; Defaults.Apply copies the configured values into
// walker.Options before the CLI's own flags are applied on top.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/yift/findit/internal/walker"
)

// fileName is the config file findit looks for under the resolved
// config directory.
const fileName = "config.toml"

// Defaults is the subset of CLI behavior a .finditrc.toml may supply a
// value for. Depth is a pointer because 0 is itself a meaningful value
// ("root only", per walker.Options) distinct from "key absent" — every
// other field's zero value happens to coincide with "unset", so a
// plain scalar is enough for those.
type Defaults struct {
	OrderBy        string `toml:"order_by"`
	Limit          int    `toml:"limit"`
	Depth          *int   `toml:"depth"`
	NodeFirst      bool   `toml:"node_first"`
	Delimiter      string `toml:"delimiter"`
	RegexCacheSize int    `toml:"regex_cache_size"`
}

// Path resolves where .finditrc.toml lives: $XDG_CONFIG_HOME/findit/config.toml,
// xdg's own fallback to ~/.config when that's unset, and finally
// go-homedir directly for an environment where even HOME resolution
// through xdg fails (e.g. a minimal container with no passwd entry).
func Path() (string, error) {
	if p, err := xdg.ConfigFile(filepath.Join("findit", fileName)); err == nil {
		return p, nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".finditrc.toml"), nil
}

// Load reads and parses the config file. A missing file is not an
// error — it yields zero-value Defaults, so every field is simply
// left for the CLI's own flag defaults to supply.
func Load() (Defaults, error) {
	path, err := Path()
	if err != nil {
		return Defaults{}, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Defaults{}, nil
	}
	if err != nil {
		return Defaults{}, err
	}
	var d Defaults
	if err := toml.Unmarshal(data, &d); err != nil {
		return Defaults{}, err
	}
	return d, nil
}

// Apply layers every non-zero scalar field of d onto opts; CLI flag
// handling runs after Apply and overwrites any field the user set
// explicitly, so config values only ever supply a default. OrderBy is
// a source expression, not a scalar, and is compiled separately by the
// caller (it needs eval.Compile, which would be a layering inversion
// for this package to depend on).
func (d Defaults) Apply(opts *walker.Options) {
	if d.Limit != 0 {
		opts.Limit = d.Limit
	}
	if d.Depth != nil {
		opts.Depth = *d.Depth
	}
	if d.NodeFirst {
		opts.NodeFirst = d.NodeFirst
	}
}

// RegexCacheSizeOr returns d's configured cache capacity, or fallback
// when unset (§5 recommends 256; findit exposes it as --regex-cache-size).
func (d Defaults) RegexCacheSizeOr(fallback int) int {
	if d.RegexCacheSize > 0 {
		return d.RegexCacheSize
	}
	return fallback
}

// DelimiterOr returns d's configured display delimiter rune, or
// fallback when unset.
func (d Defaults) DelimiterOr(fallback rune) rune {
	if d.Delimiter == "" {
		return fallback
	}
	return []rune(d.Delimiter)[0]
}
