package app

import (
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Environment variable prefixes, one per config section.
//
// For example, MODELMORA_KAFKA_BOOTSTRAP_SERVERS overrides
// kafka.bootstrapServers.
const (
	envPrefixApp             = "modelmora"
	envPrefixConnection      = "modelmora_connection"
	envPrefixPerformance     = "modelmora_performance"
	envPrefixModelManagement = "modelmora_model_management"
	envPrefixGPU             = "modelmora_gpu"
	envPrefixKafka           = "modelmora_kafka"
	envPrefixMonitoring      = "modelmora_monitoring"
)

type appEnv struct {
	AppName    string `envconfig:"APP_NAME"`
	AppVersion string `envconfig:"APP_VERSION"`
	DebugMode  *bool  `envconfig:"DEBUG_MODE"`
}

type connectionEnv struct {
	GRPCPort *int `envconfig:"GRPC_PORT"`
	HTTPPort *int `envconfig:"HTTP_PORT"`
}

type performanceEnv struct {
	MaxConcurrentRequests *int `envconfig:"MAX_CONCURRENT_REQUESTS"`
	RequestTimeoutSeconds *int `envconfig:"REQUEST_TIMEOUT_SECONDS"`
	BatchSize             *int `envconfig:"BATCH_SIZE"`
	NumWorkers            *int `envconfig:"NUM_WORKERS"`
}

type modelManagementEnv struct {
	RegistryPath     string `envconfig:"MODEL_REGISTRY_PATH"`
	CacheDir         string `envconfig:"MODEL_CACHE_DIR"`
	MaxModelMemoryMB *int   `envconfig:"MAX_MODEL_MEMORY_MB"`
	AutoWarmup       *bool  `envconfig:"AUTO_WARMUP"`
}

type gpuEnv struct {
	Enabled  *bool `envconfig:"ENABLED"`
	DeviceId *int  `envconfig:"DEVICE_ID"`
}

type kafkaEnv struct {
	BootstrapServers  string   `envconfig:"BOOTSTRAP_SERVERS"`
	ConsumerGroup     string   `envconfig:"CONSUMER_GROUP"`
	SubscribeToEvents []string `envconfig:"SUBSCRIBE_TO_EVENTS"`
}

type monitoringEnv struct {
	PrometheusPort *int   `envconfig:"PROMETHEUS_PORT"`
	LogLevel       string `envconfig:"LOG_LEVEL"`
	EnableTracing  *bool  `envconfig:"ENABLE_TRACING"`
}

// FromEnv builds an AppConfig from environment variables alone,
// falling back to the defaults for anything unset.
func FromEnv() (*AppConfig, error) {
	return sealWithEnv(&AppConfigMarshall{})
}

// LoadWithEnv reads an app config from a YAML file, then overlays
// environment variables on top of it. Environment wins over file.
func LoadWithEnv(filepath string) (*AppConfig, error) {
	marshall := &AppConfigMarshall{}
	if filepath != "" {
		content, err := os.ReadFile(filepath)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(content, marshall); err != nil {
			return nil, err
		}
	}
	return sealWithEnv(marshall)
}

func sealWithEnv(marshall *AppConfigMarshall) (*AppConfig, error) {
	if err := overlayEnv(marshall); err != nil {
		return nil, err
	}
	return TrySeal[*AppConfig](marshall), nil
}

func overlayEnv(m *AppConfigMarshall) error {
	var app appEnv
	if err := envconfig.Process(envPrefixApp, &app); err != nil {
		return err
	}
	if app.AppName != "" {
		m.AppName = app.AppName
	}
	if app.AppVersion != "" {
		m.AppVersion = app.AppVersion
	}
	if app.DebugMode != nil {
		m.DebugMode = app.DebugMode
	}

	var conn connectionEnv
	if err := envconfig.Process(envPrefixConnection, &conn); err != nil {
		return err
	}
	if conn.GRPCPort != nil || conn.HTTPPort != nil {
		c := orEmpty(m.Connection)
		if conn.GRPCPort != nil {
			c.GRPCPort = conn.GRPCPort
		}
		if conn.HTTPPort != nil {
			c.HTTPPort = conn.HTTPPort
		}
		m.Connection = c
	}

	var perf performanceEnv
	if err := envconfig.Process(envPrefixPerformance, &perf); err != nil {
		return err
	}
	if perf.MaxConcurrentRequests != nil || perf.RequestTimeoutSeconds != nil ||
		perf.BatchSize != nil || perf.NumWorkers != nil {
		p := orEmpty(m.Performance)
		if perf.MaxConcurrentRequests != nil {
			p.MaxConcurrentRequests = perf.MaxConcurrentRequests
		}
		if perf.RequestTimeoutSeconds != nil {
			p.RequestTimeoutSeconds = perf.RequestTimeoutSeconds
		}
		if perf.BatchSize != nil {
			p.BatchSize = perf.BatchSize
		}
		if perf.NumWorkers != nil {
			p.NumWorkers = perf.NumWorkers
		}
		m.Performance = p
	}

	var mm modelManagementEnv
	if err := envconfig.Process(envPrefixModelManagement, &mm); err != nil {
		return err
	}
	if mm.RegistryPath != "" || mm.CacheDir != "" || mm.MaxModelMemoryMB != nil || mm.AutoWarmup != nil {
		c := orEmpty(m.ModelManagement)
		if mm.RegistryPath != "" {
			c.RegistryPath = mm.RegistryPath
		}
		if mm.CacheDir != "" {
			c.CacheDir = mm.CacheDir
		}
		if mm.MaxModelMemoryMB != nil {
			c.MaxModelMemoryMB = mm.MaxModelMemoryMB
		}
		if mm.AutoWarmup != nil {
			c.AutoWarmup = mm.AutoWarmup
		}
		m.ModelManagement = c
	}

	var gpu gpuEnv
	if err := envconfig.Process(envPrefixGPU, &gpu); err != nil {
		return err
	}
	if gpu.Enabled != nil || gpu.DeviceId != nil {
		c := orEmpty(m.GPU)
		if gpu.Enabled != nil {
			c.Enabled = gpu.Enabled
		}
		if gpu.DeviceId != nil {
			c.DeviceId = gpu.DeviceId
		}
		m.GPU = c
	}

	var kafka kafkaEnv
	if err := envconfig.Process(envPrefixKafka, &kafka); err != nil {
		return err
	}
	if kafka.BootstrapServers != "" || kafka.ConsumerGroup != "" || kafka.SubscribeToEvents != nil {
		c := orEmpty(m.Kafka)
		if kafka.BootstrapServers != "" {
			c.BootstrapServers = kafka.BootstrapServers
		}
		if kafka.ConsumerGroup != "" {
			c.ConsumerGroup = kafka.ConsumerGroup
		}
		if kafka.SubscribeToEvents != nil {
			c.SubscribeToEvents = kafka.SubscribeToEvents
		}
		m.Kafka = c
	}

	var mon monitoringEnv
	if err := envconfig.Process(envPrefixMonitoring, &mon); err != nil {
		return err
	}
	if mon.PrometheusPort != nil || mon.LogLevel != "" || mon.EnableTracing != nil {
		c := orEmpty(m.Monitoring)
		if mon.PrometheusPort != nil {
			c.PrometheusPort = mon.PrometheusPort
		}
		if mon.LogLevel != "" {
			c.LogLevel = mon.LogLevel
		}
		if mon.EnableTracing != nil {
			c.EnableTracing = mon.EnableTracing
		}
		m.Monitoring = c
	}

	return nil
}
