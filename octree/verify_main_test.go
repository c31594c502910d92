package octree

import (
	"testing"

	"go.viam.com/meshoctree/testutils"
)

func TestMain(m *testing.M) {
	testutils.VerifyTestMain(m)
}
