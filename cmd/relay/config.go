package main

import "time"

type Config struct {
	Host                  string        `env:"HOST,default=0.0.0.0"`
	Port                  int           `env:"PORT,default=8080"`
	GrpcPort              int           `env:"GRPC_PORT,default=9090"`
	LogLevel              string        `env:"LOG_LEVEL,default=INFO"`
	BadgerFilepath        string        `env:"BADGER_FILEPATH,required=true"`
	BufferSize            int           `env:"BUFFER_SIZE,default=1024"`
	ConnectionBufferSize  int           `env:"CONNECTION_BUFFER_SIZE,default=256"`
	SinkTimeout           time.Duration `env:"SINK_TIMEOUT,default=2s"`
	RestartInterval       time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	PongWait              time.Duration `env:"PONG_WAIT,default=30s"`
	WriteWait             time.Duration `env:"WRITE_WAIT,default=10s"`
	ShutdownTimeout       time.Duration `env:"SHUTDOWN_TIMEOUT,default=5s"`
	MaxFrameBytes         int64         `env:"MAX_FRAME_BYTES,default=11534336"`
	AllowedOriginPatterns string        `env:"ALLOWED_ORIGIN_PATTERNS"`
}
