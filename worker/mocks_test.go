package worker

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"qualibot.com/qualifier/pipeline"
	"qualibot.com/qualifier/tasks"
)

var errMock = errors.New("mock failure")

type pipelineMockConfig struct {
	fail   bool
	result string
}

type pipelineMock struct {
	ppln     pipeline.Pipeline
	called   bool
	requests []pipeline.Request
}

func newPipelineMock(config pipelineMockConfig) *pipelineMock {
	mock := &pipelineMock{}
	mock.ppln = func(request pipeline.Request) <-chan string {
		mock.called = true
		mock.requests = append(mock.requests, request)
		ch := make(chan string, 1)
		if !config.fail {
			ch <- config.result
		}
		close(ch)
		return ch
	}
	return mock
}

type redisMockConfig struct {
	messageTask           *tasks.MessageTask
	job                   *tasks.JobTask
	getMessageTask        bool
	getJobTask            bool
	onTaskCancelled       bool
	onTaskStarted         bool
	onTaskExceededRetries bool
	onTaskFailedWithError bool
	onTaskComplete        bool
}

// redisMockCalls records which methods were called; the same fields of
// redisMockConfig make them fail.
type redisMockCalls struct {
	getMessageTask        bool
	getJobTask            bool
	onTaskCancelled       bool
	onTaskStarted         bool
	onTaskExceededRetries bool
	onTaskFailedWithError bool
	onTaskComplete        bool
}

type redisMock struct {
	config        redisMockConfig
	calls         redisMockCalls
	errorMessages []string
}

func fail(shouldFail bool) error {
	if shouldFail {
		return errMock
	}
	return nil
}

func (mock *redisMock) close() {}

func (mock *redisMock) getMessageTask(_ context.Context, _ string) (*tasks.MessageTask, error) {
	mock.calls.getMessageTask = true
	if mock.config.getMessageTask {
		return nil, errMock
	}
	if mock.config.messageTask != nil {
		task := *mock.config.messageTask
		return &task, nil
	}
	return &tasks.MessageTask{JobID: "job", TextFileKey: "messages/1.txt"}, nil
}

func (mock *redisMock) getJobTask(_ *Task) (*tasks.JobTask, error) {
	mock.calls.getJobTask = true
	if mock.config.getJobTask {
		return nil, errMock
	}
	if mock.config.job != nil {
		job := *mock.config.job
		return &job, nil
	}
	return &tasks.JobTask{}, nil
}

func (mock *redisMock) onTaskStarted(_ *Task) error {
	mock.calls.onTaskStarted = true
	return fail(mock.config.onTaskStarted)
}

func (mock *redisMock) onTaskCancelled(_ *Task, errorMessages ...string) error {
	mock.calls.onTaskCancelled = true
	mock.errorMessages = append(mock.errorMessages, errorMessages...)
	return fail(mock.config.onTaskCancelled)
}

func (mock *redisMock) onTaskExceededRetries(_ *Task, _ int) error {
	mock.calls.onTaskExceededRetries = true
	return fail(mock.config.onTaskExceededRetries)
}

func (mock *redisMock) onTaskFailedWithError(_ *Task, err error) error {
	mock.calls.onTaskFailedWithError = true
	mock.errorMessages = append(mock.errorMessages, err.Error())
	return fail(mock.config.onTaskFailedWithError)
}

func (mock *redisMock) onTaskComplete(_ *Task) error {
	mock.calls.onTaskComplete = true
	return fail(mock.config.onTaskComplete)
}

type rmqMockConfig struct {
	pingSequencer       bool
	acknowledgeDelivery bool
}

type rmqMockCalls struct {
	pingSequencer       bool
	acknowledgeDelivery bool
	rejectDelivery      bool
}

type rmqMock struct {
	config rmqMockConfig
	calls  rmqMockCalls
}

func (mock *rmqMock) close() {}

func (mock *rmqMock) rejectDelivery(_ *amqp.Delivery, _ *zerolog.Logger) {
	mock.calls.rejectDelivery = true
}

func (mock *rmqMock) getDeliveriesCh() <-chan amqp.Delivery {
	return nil
}

func (mock *rmqMock) getReqChanErrorsCh() <-chan *amqp.Error {
	return nil
}

func (mock *rmqMock) getRespChanErrorsCh() <-chan *amqp.Error {
	return nil
}

func (mock *rmqMock) pingSequencer(_ *Task, _ Message) error {
	mock.calls.pingSequencer = true
	return fail(mock.config.pingSequencer)
}

func (mock *rmqMock) acknowledgeDelivery(_ *amqp.Delivery) error {
	mock.calls.acknowledgeDelivery = true
	return fail(mock.config.acknowledgeDelivery)
}

type s3MockConfig struct {
	text            []byte
	getMessageText  bool
	saveResultsFile bool
}

type s3MockCalls struct {
	getMessageText  bool
	saveResultsFile bool
}

type s3Mock struct {
	config s3MockConfig
	calls  s3MockCalls
	saved  map[string]string
}

func (mock *s3Mock) close() {}

func (mock *s3Mock) getMessageText(_ *Task) ([]byte, error) {
	mock.calls.getMessageText = true
	if mock.config.getMessageText {
		return nil, errMock
	}
	if mock.config.text != nil {
		return mock.config.text, nil
	}
	return []byte("some input"), nil
}

func (mock *s3Mock) saveResultsFile(task *Task, result string) error {
	mock.calls.saveResultsFile = true
	if mock.config.saveResultsFile {
		return errMock
	}
	if mock.saved == nil {
		mock.saved = map[string]string{}
	}
	mock.saved[getResultsFileKey(task)] = result
	return nil
}
