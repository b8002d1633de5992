package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Marshalled[S any] interface {
	trySeal(string) S
}

// seal a marshalled object into its readonly counterpart.
//
// This function CAN CAUSE PANIC if misconfiguration is found.
//
// All types named `pkg/configs/app.XxxMarshall` are `Marshalled[*Xxx]`.
func TrySeal[S any](conf Marshalled[S]) S {
	return conf.trySeal("(root)")
}

// AppConfigMarshall is the mutable, yaml-facing shape of AppConfig.
//
// Optional scalars are pointers so that an absent key and an explicit zero
// can be told apart; defaults are applied while sealing.
type AppConfigMarshall struct {
	AppName    string `yaml:"appName,omitempty"`
	AppVersion string `yaml:"appVersion,omitempty"`
	DebugMode  *bool  `yaml:"debugMode,omitempty"`

	Connection      *ConnectionConfigMarshall      `yaml:"connection,omitempty"`
	Performance     *PerformanceConfigMarshall     `yaml:"performance,omitempty"`
	ModelManagement *ModelManagementConfigMarshall `yaml:"modelManagement,omitempty"`
	GPU             *GPUConfigMarshall             `yaml:"gpu,omitempty"`
	Kafka           *KafkaConfigMarshall           `yaml:"kafka,omitempty"`
	Monitoring      *MonitoringConfigMarshall      `yaml:"monitoring,omitempty"`
}

var _ Marshalled[*AppConfig] = &AppConfigMarshall{}

func (m *AppConfigMarshall) trySeal(path string) *AppConfig {
	return &AppConfig{
		appName:         defaultString(m.AppName, "ModelMora"),
		appVersion:      defaultString(m.AppVersion, "0.1.0"),
		debugMode:       defaultBool(m.DebugMode, false),
		connection:      orEmpty(m.Connection).trySeal(path + ".connection"),
		performance:     orEmpty(m.Performance).trySeal(path + ".performance"),
		modelManagement: orEmpty(m.ModelManagement).trySeal(path + ".modelManagement"),
		gpu:             orEmpty(m.GPU).trySeal(path + ".gpu"),
		kafka:           orEmpty(m.Kafka).trySeal(path + ".kafka"),
		monitoring:      orEmpty(m.Monitoring).trySeal(path + ".monitoring"),
	}
}

type ConnectionConfigMarshall struct {
	GRPCPort *int `yaml:"grpcPort,omitempty"`
	HTTPPort *int `yaml:"httpPort,omitempty"`
}

func (m *ConnectionConfigMarshall) trySeal(path string) *ConnectionConfig {
	return &ConnectionConfig{
		grpcPort: port(defaultInt(m.GRPCPort, 50051), path+".grpcPort"),
		httpPort: port(defaultInt(m.HTTPPort, 8080), path+".httpPort"),
	}
}

type PerformanceConfigMarshall struct {
	MaxConcurrentRequests *int `yaml:"maxConcurrentRequests,omitempty"`
	RequestTimeoutSeconds *int `yaml:"requestTimeoutSeconds,omitempty"`
	BatchSize             *int `yaml:"batchSize,omitempty"`
	NumWorkers            *int `yaml:"numWorkers,omitempty"`
}

func (m *PerformanceConfigMarshall) trySeal(path string) *PerformanceConfig {
	return &PerformanceConfig{
		maxConcurrentRequests: positive(defaultInt(m.MaxConcurrentRequests, 100), path+".maxConcurrentRequests"),
		requestTimeoutSeconds: positive(defaultInt(m.RequestTimeoutSeconds, 30), path+".requestTimeoutSeconds"),
		batchSize:             positive(defaultInt(m.BatchSize, 32), path+".batchSize"),
		numWorkers:            positive(defaultInt(m.NumWorkers, 4), path+".numWorkers"),
	}
}

type ModelManagementConfigMarshall struct {
	RegistryPath     string `yaml:"registryPath,omitempty"`
	CacheDir         string `yaml:"cacheDir,omitempty"`
	MaxModelMemoryMB *int   `yaml:"maxModelMemoryMB,omitempty"`
	AutoWarmup       *bool  `yaml:"autoWarmup,omitempty"`
}

func (m *ModelManagementConfigMarshall) trySeal(path string) *ModelManagementConfig {
	return &ModelManagementConfig{
		registryPath:     defaultString(m.RegistryPath, "/app/configuration/ModelRegistry.yaml"),
		cacheDir:         defaultString(m.CacheDir, "/models"),
		maxModelMemoryMB: positive(defaultInt(m.MaxModelMemoryMB, 8192), path+".maxModelMemoryMB"),
		autoWarmup:       defaultBool(m.AutoWarmup, true),
	}
}

type GPUConfigMarshall struct {
	Enabled  *bool `yaml:"enabled,omitempty"`
	DeviceId *int  `yaml:"deviceId,omitempty"`
}

func (m *GPUConfigMarshall) trySeal(path string) *GPUConfig {
	deviceId := defaultInt(m.DeviceId, 0)
	if deviceId < 0 {
		panic(fmt.Errorf("%s.deviceId should not be negative: %d", path, deviceId))
	}
	return &GPUConfig{
		enabled:  defaultBool(m.Enabled, false),
		deviceId: deviceId,
	}
}

type KafkaConfigMarshall struct {
	BootstrapServers  string   `yaml:"bootstrapServers,omitempty"`
	ConsumerGroup     string   `yaml:"consumerGroup,omitempty"`
	SubscribeToEvents []string `yaml:"subscribeToEvents,omitempty"`
}

func (m *KafkaConfigMarshall) trySeal(path string) *KafkaConfig {
	return &KafkaConfig{
		bootstrapServers:  defaultString(m.BootstrapServers, "localhost:9092"),
		consumerGroup:     defaultString(m.ConsumerGroup, "modelmora_consumer"),
		subscribeToEvents: append([]string(nil), m.SubscribeToEvents...),
	}
}

type MonitoringConfigMarshall struct {
	PrometheusPort *int   `yaml:"prometheusPort,omitempty"`
	LogLevel       string `yaml:"logLevel,omitempty"`
	EnableTracing  *bool  `yaml:"enableTracing,omitempty"`
}

func (m *MonitoringConfigMarshall) trySeal(path string) *MonitoringConfig {
	return &MonitoringConfig{
		prometheusPort: port(defaultInt(m.PrometheusPort, 9090), path+".prometheusPort"),
		logLevel:       defaultString(m.LogLevel, "INFO"),
		enableTracing:  defaultBool(m.EnableTracing, false),
	}
}

// Load reads an app config from a YAML file.
func Load(filepath string) (*AppConfig, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return Unmarshal(content)
}

// Unmarshal parses conf as YAML and seals it.
// Like TrySeal, it CAN CAUSE PANIC on misconfiguration.
func Unmarshal(conf []byte) (*AppConfig, error) {
	marshall := &AppConfigMarshall{}
	if err := yaml.Unmarshal(conf, marshall); err != nil {
		return nil, err
	}
	return TrySeal[*AppConfig](marshall), nil
}

func orEmpty[T any](m *T) *T {
	if m == nil {
		return new(T)
	}
	return m
}

func defaultString(v string, d string) string {
	if v == "" {
		return d
	}
	return v
}

func defaultInt(v *int, d int) int {
	if v == nil {
		return d
	}
	return *v
}

func defaultBool(v *bool, d bool) bool {
	if v == nil {
		return d
	}
	return *v
}

func port(v int, path string) int32 {
	if v < 0 || 65535 < v {
		panic(fmt.Errorf("%s should be a port number (0 to 65535): %d", path, v))
	}
	return int32(v)
}

func positive(v int, path string) int {
	if v <= 0 {
		panic(fmt.Errorf("%s should be positive: %d", path, v))
	}
	return v
}
