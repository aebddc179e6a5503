package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/plutoken/plubot_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool
	JWTSecret    string

	// Fee schedule: native-token trades get the lower rates.
	Fees domain.FeeSchedule

	// KYC limits.
	MaxKycAttempts int
	MaxKycEdits    int

	// External collaborators.
	PriceFeedURL          string
	PriceFeedTimeout      time.Duration
	PaymentConfirmTimeout time.Duration
	PaymentVerifyURL      string
	CashAppID             string
	PayPalID              string

	// NativeAsset is the token symbol that gets the native fee schedule.
	NativeAsset string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("NATIVE_MAKER_FEE", "0.004")
	viper.SetDefault("NATIVE_TAKER_FEE", "0.007")
	viper.SetDefault("OTHER_MAKER_FEE", "0.005")
	viper.SetDefault("OTHER_TAKER_FEE", "0.012")
	viper.SetDefault("MAX_KYC_ATTEMPTS", 3)
	viper.SetDefault("MAX_KYC_EDITS", 1)
	viper.SetDefault("PRICE_FEED_URL", "https://min-api.cryptocompare.com")
	viper.SetDefault("PRICE_FEED_TIMEOUT", "5s")
	viper.SetDefault("PAYMENT_CONFIRM_TIMEOUT", "10s")
	viper.SetDefault("PAYMENT_VERIFY_URL", "")
	viper.SetDefault("CASHAPP_APP_ID", "")
	viper.SetDefault("PAYPAL_ID", "")
	viper.SetDefault("NATIVE_ASSET", "xplt")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	fees, err := loadFeeSchedule()
	if err != nil {
		return nil, err
	}
	cfg.Fees = fees

	cfg.MaxKycAttempts = viper.GetInt("MAX_KYC_ATTEMPTS")
	cfg.MaxKycEdits = viper.GetInt("MAX_KYC_EDITS")

	cfg.PriceFeedURL = viper.GetString("PRICE_FEED_URL")
	cfg.PriceFeedTimeout = parseDurationOr("PRICE_FEED_TIMEOUT", 5*time.Second)
	cfg.PaymentConfirmTimeout = parseDurationOr("PAYMENT_CONFIRM_TIMEOUT", 10*time.Second)
	cfg.PaymentVerifyURL = viper.GetString("PAYMENT_VERIFY_URL")

	cfg.CashAppID = viper.GetString("CASHAPP_APP_ID")
	cfg.PayPalID = viper.GetString("PAYPAL_ID")
	cfg.NativeAsset = viper.GetString("NATIVE_ASSET")

	return cfg, nil
}

func loadFeeSchedule() (domain.FeeSchedule, error) {
	var fees domain.FeeSchedule
	var err error
	if fees.NativeMaker, err = decimal.NewFromString(viper.GetString("NATIVE_MAKER_FEE")); err != nil {
		return fees, err
	}
	if fees.NativeTaker, err = decimal.NewFromString(viper.GetString("NATIVE_TAKER_FEE")); err != nil {
		return fees, err
	}
	if fees.OtherMaker, err = decimal.NewFromString(viper.GetString("OTHER_MAKER_FEE")); err != nil {
		return fees, err
	}
	if fees.OtherTaker, err = decimal.NewFromString(viper.GetString("OTHER_TAKER_FEE")); err != nil {
		return fees, err
	}
	return fees, nil
}

func parseDurationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}
