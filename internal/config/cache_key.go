package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SessionKey returns the key of the session slot for a user.
func (r *CacheKeyStruct) SessionKey(userID string) string {
	return fmt.Sprintf("session:user:%s", userID)
}

// StudentRequestsChannel returns the Redis PubSub channel carrying status
// changes of a student's requests.
func (r *CacheKeyStruct) StudentRequestsChannel(studentID string) string {
	return fmt.Sprintf("student:%s:requests", studentID)
}

var CacheKey = NewCacheKeyStruct()
