package queue

import (
	"errors"
	"net"
	"strconv"
	"strings"

	"github.com/dujiao-next/order-desk/internal/config"
	"github.com/dujiao-next/order-desk/internal/constants"

	"github.com/hibiken/asynq"
)

// DefaultQueue 录单后续任务所在队列
const DefaultQueue = constants.QueueDefault

const (
	defaultConcurrency = 10
	defaultMaxRetry    = 5
)

// Client 订单后续任务投递端；未启用时所有投递均为空操作
type Client struct {
	client   *asynq.Client
	queue    string
	maxRetry int
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{queue: DefaultQueue}, nil
	}
	maxRetry := cfg.MaxRetry
	if maxRetry <= 0 {
		maxRetry = defaultMaxRetry
	}
	return &Client{
		client:   asynq.NewClient(redisOpt(cfg)),
		queue:    DefaultQueue,
		maxRetry: maxRetry,
	}, nil
}

// Enabled 是否真正连接了队列
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// EnqueueOrderSubmitted 投递订单提交后续任务。
// 以订单号作为任务 ID，同一订单重复投递视为成功。
func (c *Client) EnqueueOrderSubmitted(payload OrderSubmittedPayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewOrderSubmittedTask(payload)
	if err != nil {
		return err
	}
	options := []asynq.Option{asynq.Queue(c.queue), asynq.MaxRetry(c.maxRetry)}
	if id := OrderSubmittedTaskID(payload); id != "" {
		options = append(options, asynq.TaskID(id))
	}
	_, err = c.client.Enqueue(task, append(options, opts...)...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

// OrderSubmittedTaskID 订单提交任务的去重 ID
func OrderSubmittedTaskID(payload OrderSubmittedPayload) string {
	orderNo := strings.TrimSpace(payload.OrderNo)
	if orderNo == "" {
		return ""
	}
	return TaskOrderSubmitted + ":" + orderNo
}

// BuildServerConfig 生成 worker 端连接与并发配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	serverCfg := asynq.Config{
		Concurrency: defaultConcurrency,
		Queues:      map[string]int{DefaultQueue: 1},
	}
	if cfg != nil {
		if cfg.Concurrency > 0 {
			serverCfg.Concurrency = cfg.Concurrency
		}
		if len(cfg.Queues) > 0 {
			serverCfg.Queues = cfg.Queues
		}
	}
	return redisOpt(cfg), serverCfg
}

func redisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	opt.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
