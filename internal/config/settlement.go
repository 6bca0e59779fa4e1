package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// SettlementConfig captures the money-movement policy knobs: the platform
// cut taken from every payout, the waiting period before a completed payment
// becomes eligible for payout, the window in which a student may request a
// refund, and the budget for gateway enrichment calls.
type SettlementConfig struct {
	PlatformFeeRate     float64
	PayoutWaitingPeriod time.Duration
	RefundWindow        time.Duration
	GatewayTimeout      time.Duration
}

func DefaultSettlementConfig() SettlementConfig {
	return SettlementConfig{
		PlatformFeeRate:     0.30,
		PayoutWaitingPeriod: 72 * time.Hour,
		RefundWindow:        72 * time.Hour,
		GatewayTimeout:      3 * time.Second,
	}
}

// SettlementConfigHolder exposes an atomically swappable snapshot of the
// settlement policy. Reads never block; a file change swaps the whole value.
type SettlementConfigHolder struct {
	current atomic.Value // holds SettlementConfig
}

func NewSettlementConfigHolder() (*SettlementConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("settlement")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/eduledger/config") // Volume-mounted config
	v.AddConfigPath("/etc/eduledger")            // System config
	v.AddConfigPath(".")                         // Current directory (dev mode)

	v.SetEnvPrefix("EDULEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultSettlementConfig()
	v.SetDefault("settlement.platform_fee_rate", defaults.PlatformFeeRate)
	v.SetDefault("settlement.payout_waiting_period", defaults.PayoutWaitingPeriod.String())
	v.SetDefault("settlement.refund_window", defaults.RefundWindow.String())
	v.SetDefault("settlement.gateway_timeout", defaults.GatewayTimeout.String())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := readSettlementConfig(v)
	if err := validateSettlementConfig(cfg); err != nil {
		return nil, err
	}

	holder := &SettlementConfigHolder{}
	holder.Set(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated := readSettlementConfig(v)
		if err := validateSettlementConfig(updated); err != nil {
			log.Printf("[settlement-config] invalid config ignored: %v", err)
			return
		}
		holder.Set(updated)
		log.Printf("[settlement-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// Get returns the current policy snapshot, falling back to defaults when
// the holder was never loaded.
func (h *SettlementConfigHolder) Get() SettlementConfig {
	if v := h.current.Load(); v != nil {
		return v.(SettlementConfig)
	}
	return DefaultSettlementConfig()
}

// Set swaps the policy snapshot atomically.
func (h *SettlementConfigHolder) Set(cfg SettlementConfig) {
	h.current.Store(cfg)
}

func readSettlementConfig(v *viper.Viper) SettlementConfig {
	return SettlementConfig{
		PlatformFeeRate:     v.GetFloat64("settlement.platform_fee_rate"),
		PayoutWaitingPeriod: v.GetDuration("settlement.payout_waiting_period"),
		RefundWindow:        v.GetDuration("settlement.refund_window"),
		GatewayTimeout:      v.GetDuration("settlement.gateway_timeout"),
	}
}

func validateSettlementConfig(cfg SettlementConfig) error {
	if cfg.PlatformFeeRate < 0 || cfg.PlatformFeeRate >= 1 {
		return errors.New("settlement.platform_fee_rate must be in [0, 1)")
	}
	if cfg.PayoutWaitingPeriod <= 0 {
		return errors.New("settlement.payout_waiting_period must be positive")
	}
	if cfg.RefundWindow <= 0 {
		return errors.New("settlement.refund_window must be positive")
	}
	if cfg.GatewayTimeout <= 0 {
		return errors.New("settlement.gateway_timeout must be positive")
	}
	return nil
}
