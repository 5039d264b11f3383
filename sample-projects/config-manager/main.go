package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	skema "github.com/reoring/skema"
	g "github.com/reoring/skema/dsl"
	"github.com/reoring/skema/rules"
)

// Config is the typed application configuration.
type Config struct {
	App      AppConfig      `json:"app" yaml:"app"`
	Database DatabaseConfig `json:"database" yaml:"database"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging"`
}

type AppConfig struct {
	Name        string            `json:"name" yaml:"name"`
	Environment string            `json:"environment" yaml:"environment"`
	Host        string            `json:"host" yaml:"host"`
	Port        int               `json:"port" yaml:"port"`
	TLS         TLSConfig         `json:"tls" yaml:"tls"`
	Metadata    map[string]string `json:"metadata" yaml:"metadata"`
}

type TLSConfig struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	CertFile string `json:"certFile,omitempty" yaml:"certFile,omitempty"`
	KeyFile  string `json:"keyFile,omitempty" yaml:"keyFile,omitempty"`
}

type DatabaseConfig struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	Database string `json:"database" yaml:"database"`
	Password string `json:"password" yaml:"password"`
	MaxConns int    `json:"maxConns" yaml:"maxConns"`
	SSLMode  string `json:"sslMode" yaml:"sslMode"`
}

type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

func configSchema() skema.Schema {
	port := g.Int().Gte(1).Lte(65535)
	tls := g.Object(
		g.Field("enabled", g.Default(g.Bool(), false)),
		g.Field("certFile", g.String().Min(1).Optional()),
		g.Field("keyFile", g.String().Min(1).Optional()),
	).Strict().SuperRefine(
		rules.If("/enabled", rules.Eq, true).Then(rules.Required("/certFile"), rules.Required("/keyFile")),
	)
	app := g.Object(
		g.Field("name", g.String().Min(1)),
		g.Field("environment", g.Default(g.Enum("development", "staging", "production"), "development")),
		g.Field("host", g.Default(g.String(), "0.0.0.0")),
		g.Field("port", g.Default(port, 8080)),
		g.Field("tls", g.Default(tls, map[string]any{})),
		g.Field("metadata", g.Default(g.Record(g.String()), map[string]any{})),
	).Strict()
	db := g.Object(
		g.Field("host", g.Default(g.String(), "localhost")),
		g.Field("port", g.Default(port, 5432)),
		g.Field("database", g.String().Min(1)),
		g.Field("password", g.Default(g.String(), "")),
		g.Field("maxConns", g.Default(g.Int().Positive(), 10)),
		g.Field("sslMode", g.Default(g.Enum("disable", "prefer", "require"), "prefer")),
	).Strict()
	logging := g.Object(
		g.Field("level", g.Default(g.Enum("debug", "info", "warn", "error"), "info")),
		g.Field("format", g.Default(g.Enum("json", "text"), "json")),
	).Strict()

	return g.Object(
		g.Field("app", app),
		g.Field("database", db),
		g.Field("logging", g.Default(logging, map[string]any{})),
	).Strict().SuperRefine(
		rules.If("/app/environment", rules.Eq, "production").Then(
			rules.MustExpr(`database.sslMode == "require"`, "production requires sslMode=require"),
		),
	)
}

// load reads base.yaml and an optional <env>.yaml overlay from dir, expands
// environment variables, merges them and validates the result.
func load(ctx context.Context, dir, env string) (Config, error) {
	merged := map[string]any{}
	for _, name := range []string{"base.yaml", env + ".yaml"} {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if os.IsNotExist(err) && name != "base.yaml" {
			continue
		}
		if err != nil {
			return Config{}, err
		}
		var doc map[string]any
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), &doc); err != nil {
			return Config{}, fmt.Errorf("%s: %w", name, err)
		}
		deepMerge(merged, doc)
	}

	// Re-encode the overlay so duplicate keys and depth are checked by the
	// YAML source like any other input.
	buf, err := yaml.Marshal(merged)
	if err != nil {
		return Config{}, err
	}
	v, err := skema.ParseFrom(ctx, configSchema(), skema.YAMLBytes(buf), skema.ParseOpt{OnDuplicateKey: skema.Error})
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	b, err := json.Marshal(v)
	if err != nil {
		return Config{}, err
	}
	return cfg, json.Unmarshal(b, &cfg)
}

func deepMerge(dst, src map[string]any) {
	for k, v := range src {
		if sm, ok := v.(map[string]any); ok {
			if dm, ok := dst[k].(map[string]any); ok {
				deepMerge(dm, sm)
				continue
			}
		}
		dst[k] = v
	}
}

func main() {
	dir := flag.String("dir", "config", "configuration directory")
	env := flag.String("env", "development", "environment overlay to apply")
	flag.Parse()

	cfg, err := load(context.Background(), *dir, *env)
	if err != nil {
		if ve, ok := skema.AsValidationError(err); ok {
			for ptr, msgs := range ve.Format() {
				fmt.Fprintf(os.Stderr, "%s: %v\n", ptr, msgs)
			}
			os.Exit(1)
		}
		log.Fatal(err)
	}
	cfg.Database.Password = "********"
	out, _ := yaml.Marshal(cfg)
	fmt.Print(string(out))
}
