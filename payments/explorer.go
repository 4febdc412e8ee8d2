package payments

import "fmt"

var explorerBases = map[string]string{
	"BTC":  "https://blockstream.info/tx/",
	"LTC":  "https://live.blockcypher.com/ltc/tx/",
	"ETH":  "https://etherscan.io/tx/",
	"USDT": "https://etherscan.io/tx/",
	"USDC": "https://etherscan.io/tx/",
	"SOL":  "https://solscan.io/tx/",
}

// ExplorerURL links a transaction hash to the coin's public explorer.
func ExplorerURL(coin string, txHash string) string {
	base, ok := explorerBases[coin]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s%s", base, txHash)
}
