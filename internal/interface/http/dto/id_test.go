package dto_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/stockroom/internal/interface/http/dto"
)

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    dto.ID
		wantErr bool
	}{
		{name: "数字", input: `12`, want: 12},
		{name: "字符串", input: `"12"`, want: 12},
		{name: "null", input: `null`, want: 0},
		{name: "空字符串", input: `""`, want: 0},
		{name: "负数", input: `-1`, wantErr: true},
		{name: "小数", input: `1.5`, wantErr: true},
		{name: "非数字字符串", input: `"abc"`, wantErr: true},
		{name: "布尔", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id dto.ID
			err := json.Unmarshal([]byte(tt.input), &id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestRecordTransactionRequest_NumericAndStringIDs(t *testing.T) {
	var numeric dto.RecordTransactionRequest
	require.NoError(t, json.Unmarshal([]byte(
		`{"productId":1,"employeeId":2,"barcodeId":3,"transactionType":"CHECKOUT"}`), &numeric))

	var quoted dto.RecordTransactionRequest
	require.NoError(t, json.Unmarshal([]byte(
		`{"productId":"1","employeeId":"2","barcodeId":"3","transactionType":"CHECKOUT"}`), &quoted))

	assert.Equal(t, numeric, quoted)
	assert.Equal(t, uint64(1), numeric.ProductID.Uint64())
	assert.Equal(t, uint64(2), numeric.EmployeeID.Uint64())
	assert.Equal(t, uint64(3), numeric.BarcodeID.Uint64())
}
