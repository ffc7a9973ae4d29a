// internal/common/errors/errors_test.go
package errors

import (
	"fmt"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createMockJob(retries int32) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                100,
		Type:               "process-farmer-text",
		ProcessInstanceKey: 1000,
		Retries:            retries,
		Variables:          "{}",
	}}
}

func TestConvertToBPMNError(t *testing.T) {
	stdErr := NewNLUChainExhaustedError(fmt.Errorf("all strategies failed")).
		WithMetadata("attempts", 2)

	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, "NLU_CHAIN_EXHAUSTED", bpmnErr.Code)
	assert.True(t, bpmnErr.Retryable)
	assert.Equal(t, 2, bpmnErr.Retries)

	vars := bpmnErr.ToErrorVariables()
	assert.Equal(t, "NLU_CHAIN_EXHAUSTED", vars["errorCode"])
	assert.Equal(t, "NLU_CHAIN_EXHAUSTED", vars["originalErrorCode"])
	assert.Equal(t, 2, vars["attempts"])
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		jobRetries  int32
		wantCode    ErrorCode
		wantRetries int
	}{
		{
			name:        "validation errors are thrown",
			err:         NewInputValidationFailedError("text is required"),
			jobRetries:  3,
			wantCode:    ErrCodeInputValidationFailed,
			wantRetries: 0,
		},
		{
			name:        "strategy failures are retried",
			err:         NewNLUStrategyFailedError(fmt.Errorf("boom")),
			jobRetries:  3,
			wantCode:    ErrCodeNLUStrategyFailed,
			wantRetries: 3,
		},
		{
			name:        "retries capped by job",
			err:         NewNLUStrategyFailedError(fmt.Errorf("conn reset")),
			jobRetries:  1,
			wantCode:    ErrCodeNLUStrategyFailed,
			wantRetries: 1,
		},
		{
			name:        "no retries left",
			err:         NewNLUChainExhaustedError(fmt.Errorf("all declined")),
			jobRetries:  0,
			wantCode:    ErrCodeNLUChainExhausted,
			wantRetries: 0,
		},
		{
			name:        "wrapped standard error is found",
			err:         fmt.Errorf("execute: %w", NewNLUStrategyFailedError(fmt.Errorf("boom"))),
			jobRetries:  3,
			wantCode:    ErrCodeNLUStrategyFailed,
			wantRetries: 3,
		},
		{
			name:        "plain errors become internal",
			err:         fmt.Errorf("nil pointer"),
			jobRetries:  3,
			wantCode:    ErrCodeInternal,
			wantRetries: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(createMockJob(tt.jobRetries), tt.err)

			require.NotNil(t, d.Standard)
			assert.Equal(t, tt.wantCode, d.Standard.Code)
			assert.Equal(t, string(tt.wantCode), d.BPMN.Code)
			assert.Equal(t, tt.wantRetries, d.Retries)
		})
	}
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "NLU", GetErrorCategory(ErrCodeNLUChainExhausted))
	assert.Equal(t, "CACHE", GetErrorCategory(ErrCodeCacheUnavailable))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInputValidationFailed))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
	assert.False(t, IsRetryableErrorCode(ErrCodeInvalidInput))
	assert.True(t, IsRetryableErrorCode(ErrCodeCacheUnavailable))
}
