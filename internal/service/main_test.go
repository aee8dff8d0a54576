package service

import (
	"os"
	"testing"

	"WellCheck/pkg/logger"
	"WellCheck/pkg/snowflake"
)

func TestMain(m *testing.M) {
	logger.Init()
	if err := snowflake.Init(1, 1); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}
