package identifier

// DEXProtocol enumerates the AMM implementations pool state/metadata can
// describe (supplemented from original_source's ChainProtocol/DEXProtocol;
// router/factory address tables were dropped as out of scope — this module
// never executes trades, it only needs the taxonomy to tag PoolState and
// PoolInfo records, per spec §3.6).
type DEXProtocol uint8

const (
	DEXUnknown         DEXProtocol = 0
	DEXUniswapV2       DEXProtocol = 1
	DEXUniswapV3       DEXProtocol = 2
	DEXSushiswapV2     DEXProtocol = 3
	DEXQuickswapV2     DEXProtocol = 4
	DEXQuickswapV3     DEXProtocol = 5
	DEXCurveStableSwap DEXProtocol = 6
	DEXBalancerV2      DEXProtocol = 7
	DEXPancakeSwapV2   DEXProtocol = 8
)

func (p DEXProtocol) String() string {
	switch p {
	case DEXUniswapV2:
		return "UniswapV2"
	case DEXUniswapV3:
		return "UniswapV3"
	case DEXSushiswapV2:
		return "SushiswapV2"
	case DEXQuickswapV2:
		return "QuickswapV2"
	case DEXQuickswapV3:
		return "QuickswapV3"
	case DEXCurveStableSwap:
		return "Curve"
	case DEXBalancerV2:
		return "BalancerV2"
	case DEXPancakeSwapV2:
		return "PancakeSwapV2"
	default:
		return "Unknown"
	}
}

// AMMVariant is the pricing-math family a DEXProtocol implements.
type AMMVariant uint8

const (
	AMMUnknown               AMMVariant = 0
	AMMConstantProduct       AMMVariant = 1 // x*y=k (V2-style)
	AMMConcentratedLiquidity AMMVariant = 2 // tick ranges (V3-style)
	AMMStableSwap            AMMVariant = 3 // Curve invariant
	AMMWeightedPool          AMMVariant = 4 // Balancer weighted pools
)

// MathVariant reports which pricing-math family a protocol uses.
func (p DEXProtocol) MathVariant() AMMVariant {
	switch p {
	case DEXUniswapV2, DEXSushiswapV2, DEXQuickswapV2, DEXPancakeSwapV2:
		return AMMConstantProduct
	case DEXUniswapV3, DEXQuickswapV3:
		return AMMConcentratedLiquidity
	case DEXCurveStableSwap:
		return AMMStableSwap
	case DEXBalancerV2:
		return AMMWeightedPool
	default:
		return AMMUnknown
	}
}

// DefaultFeeTierBps returns the protocol's conventional fee tier in basis
// points, used when a discovery response omits an explicit fee tier.
func (p DEXProtocol) DefaultFeeTierBps() uint32 {
	switch p {
	case DEXUniswapV2, DEXSushiswapV2, DEXQuickswapV2, DEXPancakeSwapV2, DEXUniswapV3, DEXQuickswapV3:
		return 30
	case DEXCurveStableSwap:
		return 4
	case DEXBalancerV2:
		return 10
	default:
		return 0
	}
}
