package config

import (
	"fmt"
	"time"

	"github.com/nestorcad/viewercore/internal/drawing"
	"github.com/nestorcad/viewercore/internal/grips"
	"github.com/nestorcad/viewercore/internal/nudge"
	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "viewercore.cfg.json"

// MemoryConfig holds in-memory storage backend settings
type MemoryConfig struct {
	SeedFile       string `json:"seedFile" mapstructure:"seedFile"`
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds SQLite storage backend settings
type SQLiteConfig struct {
	Path         string        `json:"path" mapstructure:"path"`
	DumpInterval time.Duration `json:"dumpInterval" mapstructure:"dumpInterval"`
}

// DBConfig holds Postgres connection settings
type DBConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
}

// WebsocketConfig holds scene sync backend settings
type WebsocketConfig struct {
	URL    string `json:"url" mapstructure:"url"`
	Secret string `json:"secret" mapstructure:"secret"`
}

// StorageConfig selects and configures the scene store.
type StorageConfig struct {
	Type      string
	Memory    MemoryConfig
	SQLite    SQLiteConfig
	DB        DBConfig
	Websocket WebsocketConfig
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled      bool
	ServiceName  string
	BatchTimeout time.Duration
	Endpoint     string
	Insecure     bool
}

// InfluxConfig holds edit telemetry sink settings
type InfluxConfig struct {
	Enabled  bool
	Protocol string
	Host     string
	Port     string
	Token    string
	Org      string
	Bucket   string
}

// URL returns the server address of the InfluxDB instance.
func (c InfluxConfig) URL() string {
	return fmt.Sprintf("%s://%s:%s", c.Protocol, c.Host, c.Port)
}

// GraylogConfig holds GELF log sink settings
type GraylogConfig struct {
	Enabled bool
	Address string
}

// SnapConfig holds snap resolver settings
type SnapConfig struct {
	Enabled  bool
	Aperture float64
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// SetDefaults registers every default value. Load calls it; callers running
// without a config file call it directly.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./viewerlogs")
	viper.SetDefault("levelId", "level-1")

	gs := grips.DefaultSettings()
	viper.SetDefault("grips.size", gs.Size)
	viper.SetDefault("grips.coldColor", gs.ColdColor)
	viper.SetDefault("grips.warmColor", gs.WarmColor)
	viper.SetDefault("grips.hotColor", gs.HotColor)
	viper.SetDefault("grips.contourColor", gs.ContourColor)
	viper.SetDefault("grips.pickBoxSize", gs.PickBoxSize)
	viper.SetDefault("grips.apertureSize", gs.ApertureSize)
	viper.SetDefault("grips.multiGripEdit", gs.MultiGripEdit)
	viper.SetDefault("grips.maxGripsPerEntity", gs.MaxGripsPerEntity)
	viper.SetDefault("grips.devicePixelRatio", gs.DevicePixelRatio)

	ds := drawing.DefaultSettings()
	viper.SetDefault("drawing.markerPixels", ds.MarkerPixels)
	viper.SetDefault("drawing.duplicateTolerance", ds.DuplicateTolerance)

	ns := nudge.DefaultSettings()
	viper.SetDefault("nudge.step", ns.Step)
	viper.SetDefault("nudge.multiplier", ns.Multiplier)

	viper.SetDefault("snap.enabled", true)
	viper.SetDefault("snap.aperture", 10)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.seedFile", "")
	viper.SetDefault("storage.memory.outputDir", "")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.path", "./viewercore.db")
	viper.SetDefault("storage.sqlite.dumpInterval", "3m")
	viper.SetDefault("storage.websocket.url", "ws://localhost:5000/api/v1/scenes/ws")
	viper.SetDefault("storage.websocket.secret", "")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "viewercore")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "viewercore")
	viper.SetDefault("influx.bucket", "edits")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "viewercore")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetGripSettings returns the grip rendering and hit-test settings.
func GetGripSettings() grips.Settings {
	return grips.Settings{
		Size:              viper.GetInt("grips.size"),
		ColdColor:         viper.GetString("grips.coldColor"),
		WarmColor:         viper.GetString("grips.warmColor"),
		HotColor:          viper.GetString("grips.hotColor"),
		ContourColor:      viper.GetString("grips.contourColor"),
		PickBoxSize:       viper.GetInt("grips.pickBoxSize"),
		ApertureSize:      viper.GetInt("grips.apertureSize"),
		MultiGripEdit:     viper.GetBool("grips.multiGripEdit"),
		MaxGripsPerEntity: viper.GetInt("grips.maxGripsPerEntity"),
		DevicePixelRatio:  viper.GetFloat64("grips.devicePixelRatio"),
	}
}

// GetDrawingSettings returns the drawing state machine settings.
func GetDrawingSettings() drawing.Settings {
	return drawing.Settings{
		MarkerPixels:       viper.GetFloat64("drawing.markerPixels"),
		DuplicateTolerance: viper.GetFloat64("drawing.duplicateTolerance"),
	}
}

// GetNudgeSettings returns the keyboard nudge settings.
func GetNudgeSettings() nudge.Settings {
	return nudge.Settings{
		Step:       viper.GetFloat64("nudge.step"),
		Multiplier: viper.GetFloat64("nudge.multiplier"),
	}
}

// GetSnapConfig returns the snap resolver settings.
func GetSnapConfig() SnapConfig {
	return SnapConfig{
		Enabled:  viper.GetBool("snap.enabled"),
		Aperture: viper.GetFloat64("snap.aperture"),
	}
}

// GetStorageConfig returns the scene store settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			SeedFile:       viper.GetString("storage.memory.seedFile"),
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			Path:         viper.GetString("storage.sqlite.path"),
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
		},
		DB: DBConfig{
			Host:     viper.GetString("db.host"),
			Port:     viper.GetString("db.port"),
			Username: viper.GetString("db.username"),
			Password: viper.GetString("db.password"),
			Database: viper.GetString("db.database"),
		},
		Websocket: WebsocketConfig{
			URL:    viper.GetString("storage.websocket.url"),
			Secret: viper.GetString("storage.websocket.secret"),
		},
	}
}

// GetOTelConfig returns the OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetInfluxConfig returns the edit telemetry sink settings.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:  viper.GetBool("influx.enabled"),
		Protocol: viper.GetString("influx.protocol"),
		Host:     viper.GetString("influx.host"),
		Port:     viper.GetString("influx.port"),
		Token:    viper.GetString("influx.token"),
		Org:      viper.GetString("influx.org"),
		Bucket:   viper.GetString("influx.bucket"),
	}
}

// GetGraylogConfig returns the GELF sink settings.
func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}
