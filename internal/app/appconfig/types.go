package appconfig

import (
	"fmt"
	"strings"
)

const (
	LottoSourceDHLottery = "dhlottery"
	LottoSourceNaver     = "naver"

	DispatchInProcess = "inprocess"
	DispatchNATS      = "nats"
)

// ProviderKeyMap maps an AI provider name to its API key.
type ProviderKeyMap map[string]string

func (m *ProviderKeyMap) Decode(value string) error {
	*m = ProviderKeyMap{}
	if strings.TrimSpace(value) == "" {
		return nil
	}
	for _, pair := range strings.Split(value, ",") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 || kv[0] == "" {
			return fmt.Errorf("invalid provider key map: expect a `=` separated key pair for each element, but got: %s", pair)
		}
		(*m)[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}
	return nil
}
