package internal

import "time"

type Config struct {
	BufferSize           int           `env:"BUFFER_SIZE,required=true"`
	NumberOfAnimators    int           `env:"NUMBER_OF_ANIMATORS,required=true"`
	SinkTimeout          time.Duration `env:"SINK_TIMEOUT,required=true"`
	CaptureTimeout       time.Duration `env:"CAPTURE_TIMEOUT,required=true"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,required=true"`
	HealthInterval       time.Duration `env:"HEALTH_INTERVAL,required=true"`
	LatencyThreshold     time.Duration `env:"LATENCY_THRESHOLD,required=true"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,required=true"`
	LowCapacityThreshold int           `env:"LOW_CAPACITY_THRESHOLD,required=true"`
	TimelineLimit        int           `env:"TIMELINE_LIMIT,required=true"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel             string        `env:"LOG_LEVEL,required=true"`
}
