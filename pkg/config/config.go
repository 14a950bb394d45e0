package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultAPIBaseURL API remota de pedidos (incluye el prefijo de versión).
const DefaultAPIBaseURL = "https://distribo-api.azurewebsites.net/v1"

// Config agrupa la configuración del front web (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App    AppConfig
	HTTP   HTTPConfig
	API    APIConfig
	Cookie CookieConfig
	Login  LoginConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// APIConfig configuración del cliente de la API remota.
// Timeout cero significa sin límite local: solo aplica el de la capa de red.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CookieConfig configuración del almacenamiento de sesión en cookies.
// Key vacía: se genera una clave efímera al arrancar (las sesiones no sobreviven reinicios).
type CookieConfig struct {
	Key    string
	Secure bool
}

// LoginConfig limita los intentos de login por IP.
type LoginConfig struct {
	RatePerMinute int
	Burst         int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, API_BASE_URL, COOKIE_KEY, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "distribo-web"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 3000),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(getString(v, "API_BASE_URL", DefaultAPIBaseURL), "/"),
			Timeout: time.Duration(getInt(v, "API_TIMEOUT_SECONDS", 0)) * time.Second,
		},
		Cookie: CookieConfig{
			Key:    getString(v, "COOKIE_KEY", ""),
			Secure: getBool(v, "COOKIE_SECURE", false),
		},
		Login: LoginConfig{
			RatePerMinute: getInt(v, "LOGIN_RATE_PER_MINUTE", 10),
			Burst:         getInt(v, "LOGIN_BURST", 5),
		},
	}

	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("config: API_BASE_URL vacío")
	}
	if cfg.HTTP.Port <= 0 {
		return nil, fmt.Errorf("config: HTTP_PORT inválido: %d", cfg.HTTP.Port)
	}
	if cfg.API.Timeout < 0 {
		return nil, fmt.Errorf("config: API_TIMEOUT_SECONDS no puede ser negativo")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
