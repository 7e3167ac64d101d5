package common

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"sync"

	"github.com/bwmarrin/snowflake"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

const defaultSecretSalt = "toughpos-secret"

var (
	snowflakeNode *snowflake.Node
	snowflakeOnce sync.Once
)

func getSnowflakeNode() *snowflake.Node {
	snowflakeOnce.Do(func() {
		node, err := snowflake.NewNode(1)
		if err != nil {
			panic(err)
		}
		snowflakeNode = node
	})
	return snowflakeNode
}

// UUIDint64 returns a new snowflake id.
func UUIDint64() int64 {
	return getSnowflakeNode().Generate().Int64()
}

// UUID returns a new snowflake id in string form.
func UUID() string {
	return getSnowflakeNode().Generate().String()
}

// GetSecretSalt returns the password salt, overridable via environment.
func GetSecretSalt() string {
	if salt := os.Getenv("TOUGHPOS_SECRET_SALT"); salt != "" {
		return salt
	}
	return defaultSecretSalt
}

// Sha256HashWithSalt hashes src with the given salt.
func Sha256HashWithSalt(src string, salt string) string {
	h := sha256.New()
	h.Write([]byte(src))
	h.Write([]byte(salt))
	return hex.EncodeToString(h.Sum(nil))
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
