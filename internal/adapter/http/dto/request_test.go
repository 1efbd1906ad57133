package dto

import (
	"encoding/json"
	"testing"
)

func TestCreateTransactionRequest_DecodesDecimalForms(t *testing.T) {
	testCases := []struct {
		name string
		body string
		want string
	}{
		{name: "string value", body: `{"source_account_id":"a","target_account_id":"b","transfer_type":1,"value":"120.50"}`, want: "120.5"},
		{name: "numeric value", body: `{"source_account_id":"a","target_account_id":"b","transfer_type":1,"value":120.50}`, want: "120.5"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var req CreateTransactionRequest
			if err := json.Unmarshal([]byte(tc.body), &req); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}

			input := req.ToUseCaseInput()
			if input.Value.String() != tc.want {
				t.Fatalf("expected value %s, got %s", tc.want, input.Value.String())
			}
			if input.TransferType != 1 {
				t.Fatalf("expected transfer type 1, got %d", input.TransferType)
			}
		})
	}
}
