package clients

import (
	"net/http"
	"strings"
	"time"

	"github.com/lilfrag140-ops/arcane-arsenal-v3/config"
)

// BuildClients assembles one failover client per configured coin. Coins
// missing from the provider config are skipped; the sweep engine then
// simply never polls their addresses.
func BuildClients(providers config.ProvidersConfig, coins config.CoinsConfig) map[string]AddressClient {
	httpClient := &http.Client{
		Timeout: time.Duration(providers.TimeoutMillis) * time.Millisecond,
	}

	result := make(map[string]AddressClient)
	if chain := buildUtxoChain(providers.Bitcoin, providers.BlockCypherAPIKey, httpClient); chain != nil {
		result["BTC"] = chain
	}
	if chain := buildUtxoChain(providers.Litecoin, providers.BlockCypherAPIKey, httpClient); chain != nil {
		result["LTC"] = chain
	}

	for _, symbol := range []string{"ETH", "USDT", "USDC"} {
		coin, ok := coins[symbol]
		if !ok || len(providers.Ethereum) == 0 {
			continue
		}
		var members []AddressClient
		for _, url := range providers.Ethereum {
			if coin.ContractAddress != "" {
				members = append(members, NewEtherscanTokenClient(
					url, providers.EtherscanAPIKey, coin.ContractAddress, coin.TokenDecimals, httpClient,
				))
			} else {
				members = append(members, NewEtherscanClient(url, providers.EtherscanAPIKey, httpClient))
			}
		}
		result[symbol] = NewFailoverClient(members...)
	}

	if len(providers.Solana) > 0 {
		var members []AddressClient
		for _, url := range providers.Solana {
			members = append(members, NewSolanaClient(url))
		}
		result["SOL"] = NewFailoverClient(members...)
	}

	return result
}

func buildUtxoChain(urls []string, blockCypherKey string, httpClient *http.Client) AddressClient {
	if len(urls) == 0 {
		return nil
	}
	var members []AddressClient
	for _, url := range urls {
		if strings.Contains(url, "blockcypher") {
			members = append(members, NewBlockCypherClient(url, blockCypherKey, httpClient))
		} else {
			members = append(members, NewEsploraClient(url, httpClient))
		}
	}
	return NewFailoverClient(members...)
}
