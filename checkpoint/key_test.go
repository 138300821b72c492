package checkpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey_SpansMinMaxYears(t *testing.T) {
	assert.Equal(t, "ukpga_2020_2024", Key("ukpga", []int{2024, 2020, 2022}, nil))
}

func TestKey_SortsSubtypesRegardlessOfInputOrder(t *testing.T) {
	k1 := Key("uksi", []int{2023}, []string{"regulation", "order"})
	k2 := Key("uksi", []int{2023}, []string{"order", "regulation"})
	assert.Equal(t, k1, k2)
}

func TestKey_SingleYear(t *testing.T) {
	assert.Equal(t, "ukpga_2023_2023", Key("ukpga", []int{2023}, nil))
}

func TestCombinationKey_Format(t *testing.T) {
	assert.Equal(t, "ukpga_2023", CombinationKey("ukpga", 2023))
}
