package providers

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

type fakeRuntime struct {
	output *bedrockruntime.InvokeModelOutput
	err    error
	got    *bedrockruntime.InvokeModelInput
}

func (f *fakeRuntime) InvokeModel(_ context.Context, params *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.got = params
	return f.output, f.err
}

func TestBedrock_Name(t *testing.T) {
	p := NewBedrock("bk-123")
	if p.Name() != "bedrock" {
		t.Errorf("Name() = %q, want bedrock", p.Name())
	}
}

func TestBedrock_SimulatedInvoke(t *testing.T) {
	p := NewBedrock("bk-123")
	reply, err := p.Invoke(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if want := "Simulated Bedrock response to 'hello'"; reply != want {
		t.Errorf("Invoke() = %q, want %q", reply, want)
	}
}

func TestBedrock_LiveInvoke(t *testing.T) {
	body, _ := json.Marshal(map[string]any{
		"results": []map[string]any{
			{"outputText": "a real reply", "completionReason": "FINISH"},
		},
	})
	rt := &fakeRuntime{output: &bedrockruntime.InvokeModelOutput{Body: body}}
	p := NewBedrockWithRuntime("bk-123", "amazon.titan-text-express-v1", rt)

	reply, err := p.Invoke(context.Background(), "what is up")
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if reply != "a real reply" {
		t.Errorf("Invoke() = %q, want %q", reply, "a real reply")
	}

	if rt.got == nil {
		t.Fatal("runtime was never called")
	}
	if got := aws.ToString(rt.got.ModelId); got != "amazon.titan-text-express-v1" {
		t.Errorf("ModelId = %q", got)
	}
	var sent bedrockTitanRequest
	if err := json.Unmarshal(rt.got.Body, &sent); err != nil {
		t.Fatalf("unmarshal sent body: %v", err)
	}
	if sent.InputText != "what is up" {
		t.Errorf("InputText = %q", sent.InputText)
	}
	if sent.TextGenerationConfig.MaxTokenCount != maxReplyTokens {
		t.Errorf("MaxTokenCount = %d, want %d", sent.TextGenerationConfig.MaxTokenCount, maxReplyTokens)
	}
}

func TestBedrock_DefaultModelID(t *testing.T) {
	p := NewBedrockWithRuntime("bk-123", "", &fakeRuntime{})
	if p.modelID != defaultBedrockModelID {
		t.Errorf("modelID = %q, want %q", p.modelID, defaultBedrockModelID)
	}
}

func TestBedrock_LiveInvokeError(t *testing.T) {
	rt := &fakeRuntime{err: errors.New("throttled")}
	p := NewBedrockWithRuntime("bk-123", "", rt)

	_, err := p.Invoke(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "throttled") {
		t.Fatalf("Invoke error = %v, want wrapped throttled", err)
	}
}

func TestBedrock_LiveInvokeNoResults(t *testing.T) {
	rt := &fakeRuntime{output: &bedrockruntime.InvokeModelOutput{Body: []byte(`{"results":[]}`)}}
	p := NewBedrockWithRuntime("bk-123", "", rt)

	if _, err := p.Invoke(context.Background(), "x"); err == nil {
		t.Fatal("expected error for empty results")
	}
}

func TestBedrock_LiveInvokeMalformedBody(t *testing.T) {
	rt := &fakeRuntime{output: &bedrockruntime.InvokeModelOutput{Body: []byte(`not json`)}}
	p := NewBedrockWithRuntime("bk-123", "", rt)

	if _, err := p.Invoke(context.Background(), "x"); err == nil {
		t.Fatal("expected error for malformed response body")
	}
}
