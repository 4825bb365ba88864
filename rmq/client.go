package rmq

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"qualibot.com/qualifier/logger"
)

type Config struct {
	Host                    string `envconfig:"QUALIFIER_RMQ_HOST" required:"true"`
	Port                    string `envconfig:"QUALIFIER_RMQ_PORT" required:"true"`
	Username                string `envconfig:"QUALIFIER_RMQ_USERNAME" required:"true"`
	Password                string `envconfig:"QUALIFIER_RMQ_PASSWORD" required:"true"`
	Exchange                string `envconfig:"QUALIFIER_RMQ_DEFAULT_EXCHANGE" default:"qualibot-default-exchange"`
	MaxParallelRequestCount int    `envconfig:"QUALIFIER_MQ_MAX_PARALLEL_REQUESTS" default:"5"`
	TaskQueue               string `envconfig:"QUALIFIER_TASK_QUEUE" default:"qualifier_tasks"`
	SequencerTaskQueue      string `envconfig:"QUALIFIER_SEQUENCER_TASK_QUEUE" required:"true"`
}

func NewConfig() (Config, error) {
	var config Config
	err := envconfig.Process("", &config)
	return config, err
}

// Client consumes qualifier tasks on one connection and publishes to the
// sequencer on another.
type Client struct {
	Deliveries     <-chan amqp.Delivery
	ReqChanErrors  <-chan *amqp.Error
	RespChanErrors <-chan *amqp.Error
	config         Config
	reqConn        *amqp.Connection
	respConn       *amqp.Connection
	respChannel    *amqp.Channel
	logger         zerolog.Logger
}

func NewClient() (*Client, error) {
	rmqLogger := logger.NewLogger("RMQ client")
	config, err := NewConfig()
	if err != nil {
		rmqLogger.Error().Err(err).Msg("Could not read env config")
		return nil, err
	}

	url := config.URL()
	respConn, respChannel, err := setup(url)
	if err != nil {
		return nil, fmt.Errorf("failed connection: %w", err)
	}
	reqConn, reqChannel, err := setup(url)
	if err != nil {
		_ = respConn.Close()
		return nil, fmt.Errorf("failed connection: %w", err)
	}

	client := Client{
		config:      config,
		reqConn:     reqConn,
		respConn:    respConn,
		respChannel: respChannel,
		logger:      rmqLogger,
	}
	if err := client.consume(reqChannel); err != nil {
		client.Close()
		return nil, err
	}
	client.ReqChanErrors = reqChannel.NotifyClose(make(chan *amqp.Error, 1))
	client.RespChanErrors = respChannel.NotifyClose(make(chan *amqp.Error, 1))

	rmqLogger.Info().
		Str("queue", config.TaskQueue).
		Int("prefetch", config.MaxParallelRequestCount).
		Msg("Consuming qualifier tasks")
	return &client, nil
}

func (c *Client) consume(reqChannel *amqp.Channel) error {
	q, err := reqChannel.QueueDeclare(
		c.config.TaskQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := reqChannel.QueueBind(q.Name, q.Name, c.config.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	if err := reqChannel.Qos(c.config.MaxParallelRequestCount, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}

	c.Deliveries, err = reqChannel.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume deliveries: %w", err)
	}
	return nil
}

func (c *Client) SendMessageToSequencer(msg amqp.Publishing) error {
	return c.respChannel.Publish(
		c.config.Exchange,
		c.config.SequencerTaskQueue,
		false,
		false,
		msg)
}

func (c *Client) Close() {
	_ = c.reqConn.Close()
	_ = c.respConn.Close()
}

func (config Config) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s", config.Username, config.Password, config.Host, config.Port)
}

func setup(url string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return conn, ch, nil
}
