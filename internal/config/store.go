package config

import "fmt"

// StoreConfig selects the key-value persistence that holds session credentials
// and UI preferences.
type StoreConfig struct {
	Type          string
	Addresses     []string
	IsSentinel    bool
	Password      RedactedString
	MasterName    string
	DBIndex       int
	EncryptionKey RedactedString
}

const DBTypeRedis string = "redis"
const DBTypeMemory string = "memory"

func (c StoreConfig) Validate(e RunningEnvironment) error {
	switch c.Type {
	case DBTypeRedis:
		if len(c.Addresses) == 0 {
			return fmt.Errorf("redis is selected as the store but no addresses are configured")
		}
		if c.IsSentinel && c.MasterName == "" {
			return fmt.Errorf("redis sentinel is enabled but the master name is empty")
		}
	case DBTypeMemory:
		if e != Development {
			return fmt.Errorf("store type cannot be \"memory\" in production")
		}
	default:
		return fmt.Errorf("unrecognized store type %q (must be one of redis, memory)", c.Type)
	}
	if c.EncryptionKey != "" && len(c.EncryptionKey) != 32 {
		return fmt.Errorf(
			"store encryption key has to be 32 bytes long, the provided one is %d long",
			len(c.EncryptionKey),
		)
	}
	return nil
}
