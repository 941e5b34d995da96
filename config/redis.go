package config

import (
	"net"
	"strconv"
	"time"
)

// RedisConfig storage 驱动为 redis 时使用的连接参数。
// - 三个超时为 0 时沿用 go-redis 的默认值。
// - PoolSize 为 0 时按 10 处理。
type RedisConfig struct {
	Address      string        `mapstructure:"address" yaml:"address"`
	Port         int           `mapstructure:"port" yaml:"port"`
	Password     string        `mapstructure:"password" yaml:"password"`
	DB           int           `mapstructure:"db" yaml:"db"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	PoolSize     int           `mapstructure:"pool_size" yaml:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns" yaml:"min_idle_conns"`
}

// Addr 返回 host:port 形式的地址，兼容 IPv6。
func (c RedisConfig) Addr() string {
	return net.JoinHostPort(c.Address, strconv.Itoa(c.Port))
}
