package core

import (
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// report data sources
const (
	SourceMemory   = "memory"
	SourcePostgres = "postgres"
	SourceUpstream = "upstream"
)

type (
	Config struct {
		Env                       string // DEV (local; default), TEST, QA, PROD
		Build                     string
		Debug                     bool
		TestMode                  bool
		AppName                   string
		SecretKey                 string
		RollbarToken              string
		DefaultFromEmail          string
		SendgridAPIKey            string
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
		WorkDir                   string

		Server   ServerConfig
		Database DatabaseConfig
		Report   ReportConfig
		Upstream UpstreamConfig
	}

	ServerConfig struct {
		Address         string
		Host            string
		DebugHost       string
		ShutdownTimeout time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
		PingAttempts  int
		PingBackoff   time.Duration // added to the wait after each failed ping
	}

	ReportConfig struct {
		Source        string
		StrictMissing bool // a scheduled subject without result counts as failed
		SurfaceIssues bool // malformed / unscheduled results fail the request
		FetchTimeout  time.Duration
	}

	UpstreamConfig struct {
		BaseURL string
		Token   string
	}
)

func (dbc DatabaseConfig) Address() string {
	return net.JoinHostPort(dbc.Host, dbc.Port)
}

// NewConfig loads the configuration for the current ENV.
// Values are looked up from env vars prefixed by ENV (eg. PROD_DATABASE_HOST),
// falling back to config/.env.<env> and then to the defaults below.
func NewConfig() *Config {
	v := viper.New()

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	workDir := Getwd()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("build", "develop")
	v.SetDefault("debug", env == "DEV")
	v.SetDefault("testMode", env == "TEST")
	v.SetDefault("appName", "Gyan")
	v.SetDefault("secretKey", "x9!w2k-sq)mz$+71=pd&ueoh8(g!b)#*d4(#rf3^$tfgn5amy")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)

	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "gyan")
	v.SetDefault("database.user", "gyan")
	v.SetDefault("database.password", "")
	v.SetDefault("database.adminUser", "")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", env == "DEV" || env == "TEST")
	v.SetDefault("database.pingAttempts", 30)
	v.SetDefault("database.pingBackoff", 100*time.Millisecond)

	v.SetDefault("report.source", SourceMemory)
	v.SetDefault("report.strictMissing", false)
	v.SetDefault("report.surfaceIssues", env == "DEV" || env == "TEST")
	v.SetDefault("report.fetchTimeout", 10*time.Second)

	v.SetDefault("upstream.baseURL", "http://localhost:5000/api")
	v.SetDefault("upstream.token", "")

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}

	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	conf := &Config{
		Env:                       env,
		Build:                     v.GetString("build"),
		Debug:                     v.GetBool("debug"),
		TestMode:                  v.GetBool("testMode"),
		AppName:                   v.GetString("appName"),
		SecretKey:                 v.GetString("secretKey"),
		RollbarToken:              v.GetString("rollbarToken"),
		DefaultFromEmail:          v.GetString("defaultFromEmail"),
		SendgridAPIKey:            v.GetString("sendgridApiKey"),
		JWTExpirationDelta:        v.GetDuration("jwtExpirationDelta"),
		JWTRefreshExpirationDelta: v.GetDuration("jwtRefreshExpirationDelta"),
		WorkDir:                   workDir,
		Server: ServerConfig{
			Address:         v.GetString("server.address"),
			Host:            v.GetString("server.host"),
			DebugHost:       v.GetString("server.debugHost"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetString("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
			PingAttempts:  v.GetInt("database.pingAttempts"),
			PingBackoff:   v.GetDuration("database.pingBackoff"),
		},
		Report: ReportConfig{
			Source:        strings.ToLower(v.GetString("report.source")),
			StrictMissing: v.GetBool("report.strictMissing"),
			SurfaceIssues: v.GetBool("report.surfaceIssues"),
			FetchTimeout:  v.GetDuration("report.fetchTimeout"),
		},
		Upstream: UpstreamConfig{
			BaseURL: strings.TrimRight(v.GetString("upstream.baseURL"), "/"),
			Token:   v.GetString("upstream.token"),
		},
	}
	if err := conf.validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	return conf
}

func (conf *Config) validate() error {
	switch conf.Report.Source {
	case SourceMemory, SourcePostgres, SourceUpstream:
	default:
		return fmt.Errorf("unknown report.source %q", conf.Report.Source)
	}
	if conf.Report.FetchTimeout <= 0 {
		return fmt.Errorf("report.fetchTimeout must be positive (got %v)", conf.Report.FetchTimeout)
	}
	return nil
}
