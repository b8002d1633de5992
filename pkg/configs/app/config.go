package app

// Application configuration of a ModelMora service.
//
// Values here parameterize the service surrounding the model catalog
// (transports, broker, concurrency); none of them influence the domain
// logic itself.
//
// To get an AppConfig instance, load a YAML file with Load, read the
// environment with FromEnv, or both with LoadWithEnv.
type AppConfig struct {
	appName    string
	appVersion string
	debugMode  bool

	connection      *ConnectionConfig
	performance     *PerformanceConfig
	modelManagement *ModelManagementConfig
	gpu             *GPUConfig
	kafka           *KafkaConfig
	monitoring      *MonitoringConfig
}

func (c *AppConfig) AppName() string {
	return c.appName
}

func (c *AppConfig) AppVersion() string {
	return c.appVersion
}

func (c *AppConfig) DebugMode() bool {
	return c.debugMode
}

func (c *AppConfig) Connection() *ConnectionConfig {
	return c.connection
}

func (c *AppConfig) Performance() *PerformanceConfig {
	return c.performance
}

func (c *AppConfig) ModelManagement() *ModelManagementConfig {
	return c.modelManagement
}

func (c *AppConfig) GPU() *GPUConfig {
	return c.gpu
}

func (c *AppConfig) Kafka() *KafkaConfig {
	return c.kafka
}

func (c *AppConfig) Monitoring() *MonitoringConfig {
	return c.monitoring
}

// Server ports.
type ConnectionConfig struct {
	grpcPort int32
	httpPort int32
}

// Port number for the gRPC server. default = 50051
func (c *ConnectionConfig) GRPCPort() int32 {
	return c.grpcPort
}

// Port number for the HTTP API server. default = 8080
func (c *ConnectionConfig) HTTPPort() int32 {
	return c.httpPort
}

// Concurrency limits of the service.
type PerformanceConfig struct {
	maxConcurrentRequests int
	requestTimeoutSeconds int
	batchSize             int
	numWorkers            int
}

// Maximum number of concurrent requests allowed. default = 100
func (c *PerformanceConfig) MaxConcurrentRequests() int {
	return c.maxConcurrentRequests
}

// Timeout duration for requests, in seconds. default = 30
func (c *PerformanceConfig) RequestTimeoutSeconds() int {
	return c.requestTimeoutSeconds
}

// Number of items to process in a single batch. default = 32
func (c *PerformanceConfig) BatchSize() int {
	return c.batchSize
}

// Number of workers for processing. default = 4
func (c *PerformanceConfig) NumWorkers() int {
	return c.numWorkers
}

// Where the model registry and caches live.
type ModelManagementConfig struct {
	registryPath     string
	cacheDir         string
	maxModelMemoryMB int
	autoWarmup       bool
}

// Path of the model registry file. default = "/app/configuration/ModelRegistry.yaml"
func (c *ModelManagementConfig) RegistryPath() string {
	return c.registryPath
}

// Directory to cache downloaded models. default = "/models"
func (c *ModelManagementConfig) CacheDir() string {
	return c.cacheDir
}

// Maximum memory (in MB) allocated for each model. default = 8192
func (c *ModelManagementConfig) MaxModelMemoryMB() int {
	return c.maxModelMemoryMB
}

// Whether models are warmed up on startup. default = true
func (c *ModelManagementConfig) AutoWarmup() bool {
	return c.autoWarmup
}

type GPUConfig struct {
	enabled  bool
	deviceId int
}

// Whether GPU acceleration is enabled. default = false
func (c *GPUConfig) Enabled() bool {
	return c.enabled
}

// The GPU device id to use. default = 0
func (c *GPUConfig) DeviceId() int {
	return c.deviceId
}

// Broker connection for publishing drained domain events.
type KafkaConfig struct {
	bootstrapServers  string
	consumerGroup     string
	subscribeToEvents []string
}

// Kafka bootstrap servers address. default = "localhost:9092"
func (c *KafkaConfig) BootstrapServers() string {
	return c.bootstrapServers
}

// Kafka consumer group id. default = "modelmora_consumer"
func (c *KafkaConfig) ConsumerGroup() string {
	return c.consumerGroup
}

// Event type names to subscribe to. default = none
func (c *KafkaConfig) SubscribeToEvents() []string {
	return append([]string(nil), c.subscribeToEvents...)
}

type MonitoringConfig struct {
	prometheusPort int32
	logLevel       string
	enableTracing  bool
}

// Port number for Prometheus metrics exposure. default = 9090
func (c *MonitoringConfig) PrometheusPort() int32 {
	return c.prometheusPort
}

// Logging level. default = "INFO"
func (c *MonitoringConfig) LogLevel() string {
	return c.logLevel
}

// Whether tracing is enabled. default = false
func (c *MonitoringConfig) EnableTracing() bool {
	return c.enableTracing
}
