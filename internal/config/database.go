package config

import (
	"fmt"
	"net/url"
	"strconv"
)

// Database defaults used when neither secrets, environment nor config set a value
const (
	DefaultDBHost           = "localhost"
	DefaultDBPort           = 5432
	DefaultDBName           = "postgres"
	DefaultDBUser           = "postgres"
	DefaultDBSSLMode        = "prefer"
	DefaultDBConnectTimeout = 10
)

// DatabaseSettings is the resolved connection target. Sources records where
// each field came from ("secrets", "env", "config" or "default").
type DatabaseSettings struct {
	URL            string
	Host           string
	Port           int
	Name           string
	User           string
	Password       string
	SSLMode        string
	ConnectTimeout int
	Sources        map[string]string
}

// ResolveDatabase resolves connection settings field by field with the precedence
// secrets file, environment (PGHOST PGPORT PGDATABASE PGUSER PGPASSWORD PGSSLMODE
// PGCONNECT_TIMEOUT, or DATABASE_URL), config file, default. A URL from the secrets
// file or DATABASE_URL is used as-is.
func ResolveDatabase(secrets *Secrets, cfg DatabaseConfig, getenv func(string) string) (*DatabaseSettings, error) {
	if secrets == nil {
		secrets = &Secrets{}
	}
	s := &DatabaseSettings{Sources: make(map[string]string)}

	switch {
	case secrets.Database.URL != "":
		s.URL = secrets.Database.URL
		s.Sources["url"] = "secrets"
		return s, nil
	case getenv("DATABASE_URL") != "":
		s.URL = getenv("DATABASE_URL")
		s.Sources["url"] = "env"
		return s, nil
	}

	pick := func(field, secret, envKey, fromConfig, def string) string {
		switch {
		case secret != "":
			s.Sources[field] = "secrets"
			return secret
		case getenv(envKey) != "":
			s.Sources[field] = "env"
			return getenv(envKey)
		case fromConfig != "":
			s.Sources[field] = "config"
			return fromConfig
		default:
			s.Sources[field] = "default"
			return def
		}
	}

	s.Host = pick("host", secrets.Database.Host, "PGHOST", cfg.Host, DefaultDBHost)
	s.Name = pick("name", secrets.Database.Name, "PGDATABASE", cfg.Name, DefaultDBName)
	s.User = pick("user", secrets.Database.User, "PGUSER", cfg.User, DefaultDBUser)
	s.Password = pick("password", secrets.Database.Password, "PGPASSWORD", "", "")
	s.SSLMode = pick("sslmode", secrets.Database.SSLMode, "PGSSLMODE", cfg.SSLMode, DefaultDBSSLMode)

	port := pick("port", itoa(secrets.Database.Port), "PGPORT", itoa(cfg.Port), strconv.Itoa(DefaultDBPort))
	var err error
	if s.Port, err = strconv.Atoi(port); err != nil {
		return nil, fmt.Errorf("invalid database port %q: %w", port, err)
	}

	timeout := pick("connect_timeout", "", "PGCONNECT_TIMEOUT", itoa(cfg.ConnectTimeout), strconv.Itoa(DefaultDBConnectTimeout))
	if s.ConnectTimeout, err = strconv.Atoi(timeout); err != nil {
		return nil, fmt.Errorf("invalid database connect timeout %q: %w", timeout, err)
	}

	return s, nil
}

func itoa(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// ConnString returns a postgres:// URL for pgx
func (s *DatabaseSettings) ConnString() string {
	if s.URL != "" {
		return s.URL
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", s.Host, s.Port),
		Path:   "/" + s.Name,
	}
	if s.Password != "" {
		u.User = url.UserPassword(s.User, s.Password)
	} else {
		u.User = url.User(s.User)
	}

	q := url.Values{}
	q.Set("sslmode", s.SSLMode)
	q.Set("connect_timeout", strconv.Itoa(s.ConnectTimeout))
	u.RawQuery = q.Encode()
	return u.String()
}

// Redacted returns the connection string with the password masked
func (s *DatabaseSettings) Redacted() string {
	u, err := url.Parse(s.ConnString())
	if err != nil {
		return "<invalid database url>"
	}
	return u.Redacted()
}
