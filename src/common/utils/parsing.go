package utils

import (
	"encoding/json"
	"fmt"

	"github.com/jack-barr3tt/pex-formatter/src/common/types"
)

func MarshalEventBatch(batch types.EventBatch) ([]byte, error) {
	return json.Marshal(batch)
}

func UnmarshalEventBatch(data []byte) (*types.EventBatch, error) {
	var batch types.EventBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, err
	}
	if batch.ID == "" {
		return nil, fmt.Errorf("event batch has no id")
	}
	return &batch, nil
}
