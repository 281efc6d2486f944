package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer

	// BaseURL must be a publicly reachable HTTPS origin; the gateway builds
	// the back URLs and webhook deliveries against it.
	BaseURL     string `env:"BASE_URL"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"course-store.db"`

	JWTSecret string `env:"JWT_SECRET"`

	Checkout    Checkout    `envPrefix:"CHECKOUT_"`
	MercadoPago MercadoPago `envPrefix:"MP_"`
}

type MercadoPago struct {
	BaseApiURL  string `env:"BASE_API_URL" envDefault:"https://api.mercadopago.com"`
	AccessToken string `env:"ACCESS_TOKEN"`
	PublicKey   string `env:"PUBLIC_KEY"`
}

type Checkout struct {
	// Currency the gateway checkout accepts; cart lines in other currencies
	// are stored for display but excluded from checkout.
	Currency string `env:"CURRENCY" envDefault:"ARS"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
