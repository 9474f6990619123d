package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the RAG bridge service
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	RAG       RAGConfig       `mapstructure:"rag"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server and inbound auth settings
type ServerConfig struct {
	Address           string        `mapstructure:"address"`
	JWTSecret         string        `mapstructure:"jwt_secret"`
	SessionTTL        time.Duration `mapstructure:"session_ttl"`
	AdminEmail        string        `mapstructure:"admin_email"`
	AdminPasswordHash string        `mapstructure:"admin_password_hash"`
}

func (s ServerConfig) Validate() error {
	if strings.TrimSpace(s.JWTSecret) == "" {
		return fmt.Errorf("server.jwt_secret is required")
	}
	return nil
}

// RAGConfig describes the upstream RAG service and how to talk to it.
// The JWT fields authenticate outbound calls and are independent of the
// inbound session secret in ServerConfig.
type RAGConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	EmbedPath         string        `mapstructure:"embed_path"`
	IDsPath           string        `mapstructure:"ids_path"`
	ContextPath       string        `mapstructure:"context_path"`
	QueryPath         string        `mapstructure:"query_path"`
	QueryMultiplePath string        `mapstructure:"query_multiple_path"`
	DefaultFileIDs    []string      `mapstructure:"default_file_ids"`
	DefaultTopK       int           `mapstructure:"default_top_k"`
	EntityID          string        `mapstructure:"entity_id"`
	Timeout           time.Duration `mapstructure:"timeout"`
	JWTSecret         string        `mapstructure:"jwt_secret"`
	JWTAlgorithm      string        `mapstructure:"jwt_algorithm"`
	JWTTTL            time.Duration `mapstructure:"jwt_ttl"`
	ServiceSubject    string        `mapstructure:"service_subject"`
}

// Normalize applies defaults for unset RAG values.
func (r RAGConfig) Normalize() RAGConfig {
	if r.EmbedPath == "" {
		r.EmbedPath = "/embed"
	}
	if r.IDsPath == "" {
		r.IDsPath = "/ids"
	}
	if r.ContextPath == "" {
		r.ContextPath = "/documents/{file_id}/context"
	}
	if r.QueryPath == "" {
		r.QueryPath = "/query"
	}
	if r.QueryMultiplePath == "" {
		r.QueryMultiplePath = "/query-multiple"
	}
	if r.DefaultTopK <= 0 {
		r.DefaultTopK = 4
	}
	if r.Timeout <= 0 {
		r.Timeout = 30 * time.Second
	}
	if r.JWTAlgorithm == "" {
		r.JWTAlgorithm = "HS256"
	}
	if r.JWTTTL <= 0 {
		r.JWTTTL = time.Minute
	}
	if r.ServiceSubject == "" {
		r.ServiceSubject = "agent_service"
	}
	return r
}

func (r RAGConfig) Validate() error {
	if strings.TrimSpace(r.BaseURL) == "" {
		return fmt.Errorf("rag.base_url is required")
	}
	return nil
}

// TelemetryConfig contains telemetry and monitoring settings
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoadConfig loads config from file
func LoadConfig(path string) *Config {
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("json")   // REQUIRED if the config file does not have the extension in the name
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("server.address", ":10002")
	viper.SetDefault("server.session_ttl", 24*time.Hour)
	viper.SetDefault("rag.default_top_k", 4)
	viper.SetDefault("rag.timeout", 30*time.Second)
	viper.SetDefault("rag.jwt_algorithm", "HS256")
	viper.SetDefault("rag.jwt_ttl", time.Minute)
	viper.SetDefault("rag.service_subject", "agent_service")
	viper.SetDefault("telemetry.enabled", true)

	if path == "" {
		viper.AddConfigPath("./config") // path to look for the config file in
		viper.AddConfigPath(".")        // optionally look for config in the working directory
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		viper.AddConfigPath(exeDir)                                // bin/
		viper.AddConfigPath(filepath.Join(exeDir, ".."))           // repo root
		viper.AddConfigPath(filepath.Join(exeDir, "..", "config")) // repo root/config
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("RAGBRIDGE")
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)

	viper.AutomaticEnv() // read in environment variables that match (RAGBRIDGE_*)

	err := viper.ReadInConfig() // Find and read the config file
	if err != nil {
		// env-only deployments are allowed to run without a config file
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	// unmarshal config
	var config Config

	if err = viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}
	config.RAG = config.RAG.Normalize()

	if err := config.Server.Validate(); err != nil {
		panic(err)
	}
	if err := config.RAG.Validate(); err != nil {
		panic(err)
	}
	return &config
}
