package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every option recognized by the card-gate binaries.
type Config struct {
	// WiFi describes the network link the supervisor keeps alive.
	WiFi WiFi `yaml:"wifi"`
	// Authority describes the remote access authority.
	Authority Authority `yaml:"authority"`
	// Reader selects and configures the card reader.
	Reader Reader `yaml:"reader"`
	// Indicators selects and configures the lights and buzzer.
	Indicators Indicators `yaml:"indicators"`
	// Peer selects and configures the downstream status consumer.
	Peer Peer `yaml:"peer"`
	// Telemetry configures OpenTelemetry tracing of authority requests.
	Telemetry Telemetry `yaml:"telemetry"`
	// Update configures the self-updater.
	Update Update `yaml:"update"`
	// HealthAddress is the gRPC health listen address; empty disables it.
	HealthAddress string `yaml:"health_addr"`
	// Cooldown is the debounce window for repeated reads of the same card.
	Cooldown time.Duration `yaml:"cooldown"`
	// PollInterval is the pause between two reader polls.
	PollInterval time.Duration `yaml:"poll_interval"`
	// HealthInterval is the cadence of link health checks.
	HealthInterval time.Duration `yaml:"health_interval"`
	// ConnectTimeout bounds a single link establishment attempt.
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	// LogLevel is the minimum log level.
	LogLevel string `yaml:"log_level"`
	// LogFile is an optional rotating log file pattern.
	LogFile string `yaml:"log_file"`
}

// WiFi holds the credentials and backend of the network link.
type WiFi struct {
	// SSID is the wireless network name.
	SSID string `yaml:"ssid"`
	// Password is the wireless network credential.
	Password string `yaml:"password"`
	// Backend is either "nmcli" (NetworkManager) or "interface" (link managed by the OS).
	Backend string `yaml:"backend"`
	// Interface restricts link detection to a single network interface.
	Interface string `yaml:"interface"`
}

// Authority holds the remote authority endpoint and shared token.
type Authority struct {
	// BaseURL is the endpoint queried with mode=check_and_toggle.
	BaseURL string `yaml:"base_url"`
	// Token is the shared secret sent with every request.
	Token string `yaml:"token"`
	// TokenFile, when set, is read on every request instead of Token.
	TokenFile string `yaml:"token_file"`
	// Timeout bounds one GET; a redirect hop gets its own timeout.
	Timeout time.Duration `yaml:"timeout"`
}

// Reader holds card reader settings.
type Reader struct {
	// Type is one of ReaderMFRC522, ReaderLines or ReaderNone.
	Type string `yaml:"type"`
	// SPIPort is the periph SPI port name; empty picks the first port.
	SPIPort string `yaml:"spi_port"`
	// ResetPin is the GPIO name wired to the MFRC522 RST line.
	ResetPin string `yaml:"reset_pin"`
	// IRQPin is the GPIO name wired to the MFRC522 IRQ line.
	IRQPin string `yaml:"irq_pin"`
	// Device is the file a line reader consumes; "-" means stdin.
	Device string `yaml:"device"`
	// PollTimeout bounds one card presence probe.
	PollTimeout time.Duration `yaml:"poll_timeout"`
}

// Indicators holds the pins of the feedback hardware.
type Indicators struct {
	// Type is IndicatorsGPIO or IndicatorsLog.
	Type string `yaml:"type"`
	// PositivePin drives the "granted" light.
	PositivePin string `yaml:"positive_pin"`
	// NegativePin drives the "denied" light.
	NegativePin string `yaml:"negative_pin"`
	// BuzzerPin drives the buzzer.
	BuzzerPin string `yaml:"buzzer_pin"`
	// FaultPin drives the persistent fault light.
	FaultPin string `yaml:"fault_pin"`
}

// Peer holds the downstream notifier settings.
type Peer struct {
	// Type is PeerSerial, PeerMQTT or PeerLog.
	Type string `yaml:"type"`
	// Device is the serial port path.
	Device string `yaml:"device"`
	// Baud is the serial port speed.
	Baud int `yaml:"baud"`
	// BrokerURL is the MQTT broker, e.g. mqtt://broker:1883/door/.
	BrokerURL string `yaml:"broker_url"`
	// Topic is appended to the broker URL path prefix.
	Topic string `yaml:"topic"`
}

// Telemetry holds tracing settings.
type Telemetry struct {
	// Endpoint is the OTLP/HTTP collector host:port; empty keeps spans local.
	Endpoint string `yaml:"endpoint"`
	// Insecure disables TLS towards the collector.
	Insecure bool `yaml:"insecure"`
	// SampleRatio is the parent-based trace ID ratio in [0, 1].
	SampleRatio float64 `yaml:"sample_ratio"`
}

// Update holds self-update settings.
type Update struct {
	// ManifestURL points at the YAML release manifest.
	ManifestURL string `yaml:"manifest_url"`
}

// Reader, indicator, peer and link backend names.
const (
	ReaderMFRC522 = "mfrc522"
	ReaderLines   = "lines"
	ReaderNone    = "none"

	IndicatorsGPIO = "gpio"
	IndicatorsLog  = "log"

	PeerSerial = "serial"
	PeerMQTT   = "mqtt"
	PeerLog    = "log"

	LinkNMCLI     = "nmcli"
	LinkInterface = "interface"
)

const (
	// DefaultConfigFilename is the default settings filename.
	DefaultConfigFilename = "card-gate-settings.yaml"

	// DefaultCooldown is the debounce window.
	DefaultCooldown = 2 * time.Second
	// DefaultAuthorityTimeout bounds one authority GET.
	DefaultAuthorityTimeout = 10 * time.Second
	// DefaultConnectTimeout bounds one link establishment attempt.
	DefaultConnectTimeout = 20 * time.Second
	// DefaultHealthInterval is the link health check cadence.
	DefaultHealthInterval = 30 * time.Second
	// DefaultPollInterval is the pause between reader polls.
	DefaultPollInterval = 50 * time.Millisecond
	// DefaultReaderPollTimeout bounds one card presence probe.
	DefaultReaderPollTimeout = 100 * time.Millisecond
	// DefaultBaud is the serial peer speed.
	DefaultBaud = 9600
	// DefaultTopic is the MQTT topic for peer lines.
	DefaultTopic = "status"

	// DefaultFilePermissions is the mode of saved settings files.
	DefaultFilePermissions = 0o600
)

var (
	errConfigIsNotSet     = errors.New("configuration is not set")
	errBaseURLRequired    = errors.New("authority base_url must be provided")
	errBaseURLScheme      = errors.New("authority base_url must be http or https")
	errTokenRequired      = errors.New("authority token or token_file must be provided")
	errUnknownBackend     = errors.New("unknown backend type")
	errSSIDRequired       = errors.New("wifi ssid must be provided for the nmcli backend")
	errReaderPins         = errors.New("mfrc522 reader needs reset_pin and irq_pin")
	errReaderDevice       = errors.New("lines reader needs a device")
	errIndicatorPins      = errors.New("gpio indicators need positive, negative and buzzer pins")
	errPeerDevice         = errors.New("serial peer needs a device")
	errPeerBroker         = errors.New("mqtt peer needs a broker_url")
	errSampleRatio        = errors.New("telemetry sample_ratio must be within [0, 1]")
	errNegativeDuration   = errors.New("durations must not be negative")
)

// Load reads configuration from path and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save validates cfg and writes it to path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// The file carries the Wi-Fi password and the shared token.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields and fills in defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if err := validateAuthority(&cfg.Authority); err != nil {
		return err
	}

	if err := validateWiFi(&cfg.WiFi); err != nil {
		return err
	}

	if err := validateReader(&cfg.Reader); err != nil {
		return err
	}

	if err := validateIndicators(&cfg.Indicators); err != nil {
		return err
	}

	if err := validatePeer(&cfg.Peer); err != nil {
		return err
	}

	if cfg.Telemetry.SampleRatio < 0 || cfg.Telemetry.SampleRatio > 1 {
		return errSampleRatio
	}

	if cfg.HealthAddress != "" {
		if _, err := net.ResolveTCPAddr("tcp", cfg.HealthAddress); err != nil {
			return fmt.Errorf("invalid health address: %w", err)
		}
	}

	if cfg.Update.ManifestURL != "" {
		if _, err := url.ParseRequestURI(cfg.Update.ManifestURL); err != nil {
			return fmt.Errorf("invalid update manifest URL: %w", err)
		}
	}

	if cfg.Cooldown < 0 || cfg.PollInterval < 0 || cfg.HealthInterval < 0 || cfg.ConnectTimeout < 0 {
		return errNegativeDuration
	}

	cfg.Cooldown = orDefault(cfg.Cooldown, DefaultCooldown)
	cfg.PollInterval = orDefault(cfg.PollInterval, DefaultPollInterval)
	cfg.HealthInterval = orDefault(cfg.HealthInterval, DefaultHealthInterval)
	cfg.ConnectTimeout = orDefault(cfg.ConnectTimeout, DefaultConnectTimeout)

	return nil
}

func validateAuthority(a *Authority) error {
	if a.BaseURL == "" {
		return errBaseURLRequired
	}

	u, err := url.ParseRequestURI(a.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid authority base_url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return errBaseURLScheme
	}

	if a.Token == "" && a.TokenFile == "" {
		return errTokenRequired
	}

	a.Timeout = orDefault(a.Timeout, DefaultAuthorityTimeout)

	return nil
}

func validateWiFi(w *WiFi) error {
	if w.Backend == "" {
		w.Backend = LinkInterface
	}

	if err := oneOf("wifi backend", w.Backend, LinkNMCLI, LinkInterface); err != nil {
		return err
	}

	if w.Backend == LinkNMCLI && w.SSID == "" {
		return errSSIDRequired
	}

	return nil
}

func validateReader(r *Reader) error {
	if r.Type == "" {
		r.Type = ReaderMFRC522
	}

	if err := oneOf("reader", r.Type, ReaderMFRC522, ReaderLines, ReaderNone); err != nil {
		return err
	}

	switch r.Type {
	case ReaderMFRC522:
		if r.ResetPin == "" || r.IRQPin == "" {
			return errReaderPins
		}
	case ReaderLines:
		if r.Device == "" {
			return errReaderDevice
		}
	}

	r.PollTimeout = orDefault(r.PollTimeout, DefaultReaderPollTimeout)

	return nil
}

func validateIndicators(i *Indicators) error {
	if i.Type == "" {
		i.Type = IndicatorsGPIO
	}

	if err := oneOf("indicators", i.Type, IndicatorsGPIO, IndicatorsLog); err != nil {
		return err
	}

	if i.Type == IndicatorsGPIO && (i.PositivePin == "" || i.NegativePin == "" || i.BuzzerPin == "") {
		return errIndicatorPins
	}

	return nil
}

func validatePeer(p *Peer) error {
	if p.Type == "" {
		p.Type = PeerSerial
	}

	if err := oneOf("peer", p.Type, PeerSerial, PeerMQTT, PeerLog); err != nil {
		return err
	}

	switch p.Type {
	case PeerSerial:
		if p.Device == "" {
			return errPeerDevice
		}

		if p.Baud <= 0 {
			p.Baud = DefaultBaud
		}
	case PeerMQTT:
		if p.BrokerURL == "" {
			return errPeerBroker
		}

		if p.Topic == "" {
			p.Topic = DefaultTopic
		}
	}

	return nil
}

func oneOf(what, value string, allowed ...string) error {
	if slices.Contains(allowed, value) {
		return nil
	}

	return fmt.Errorf("%s %q: %w", what, value, errUnknownBackend)
}

func orDefault(value, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}

	return value
}
