package main

import "go.uber.org/zap"

func zapErr(err error) zap.Field {
	return zap.Error(err)
}

func zapInt(key string, n int) zap.Field {
	return zap.Int(key, n)
}
