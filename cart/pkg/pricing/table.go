package pricing

import (
	"github.com/shopspring/decimal"
)

var sizeLayerPrices = map[Size]map[Layers]decimal.Decimal{
	Size6Inches: {
		Layers1: decimal.NewFromInt(13500),
		Layers2: decimal.NewFromInt(24500),
		Layers3: decimal.NewFromInt(32500),
	},
	Size8Inches: {
		Layers1: decimal.NewFromInt(18500),
		Layers2: decimal.NewFromInt(37000),
		Layers3: decimal.NewFromInt(46000),
	},
	Size10Inches: {
		Layers1: decimal.NewFromInt(20500),
		Layers2: decimal.NewFromInt(40000),
		Layers3: decimal.NewFromInt(53000),
	},
}

var layerOrder = []Layers{Layers1, Layers2, Layers3}

// TierPrice resolves the price that replaces the base price for a size and
// layer pair. ok is false when either side is unselected or the pair is not in
// the table.
func TierPrice(size Size, layers Layers) (price decimal.Decimal, ok bool) {
	layerPrices, ok := sizeLayerPrices[size]
	if !ok {
		return decimal.Zero, false
	}
	price, ok = layerPrices[layers]
	if !ok {
		return decimal.Zero, false
	}
	return price, true
}

// LayersFor lists the layers that can be picked for size, in display order.
func LayersFor(size Size) []Layers {
	layerPrices, ok := sizeLayerPrices[size]
	if !ok {
		return nil
	}
	layers := make([]Layers, 0, len(layerPrices))
	for _, l := range layerOrder {
		if _, ok := layerPrices[l]; ok {
			layers = append(layers, l)
		}
	}
	return layers
}

// UpgradeSurcharge returns ok=false for values outside the enum; callers get a
// zero surcharge in that case.
func UpgradeSurcharge(upgrade Upgrade) (decimal.Decimal, bool) {
	switch upgrade {
	case UpgradeNone:
		return decimal.Zero, true
	case UpgradeOneToTwoLayers:
		return decimal.NewFromInt(5000), true
	case UpgradeThreeToFiveLayers:
		return decimal.NewFromInt(8000), true
	case UpgradeTieredCake:
		return decimal.NewFromInt(15000), true
	default:
		return decimal.Zero, false
	}
}

func ToppingSurcharge(topping Topping) (decimal.Decimal, bool) {
	switch topping {
	case ToppingMixed:
		return decimal.NewFromInt(3000), true
	default:
		return decimal.Zero, false
	}
}

func AddOnSurcharge(addOn AddOn) (decimal.Decimal, bool) {
	switch addOn {
	case AddOnCupcakeCandle:
		return decimal.NewFromInt(500), true
	case AddOnGoldCakeCandle:
		return decimal.NewFromInt(1000), true
	case AddOnAcrylicAgeTopper:
		return decimal.NewFromInt(3000), true
	case AddOnRoseStem:
		return decimal.NewFromInt(8500), true
	case AddOnChrysanthemumStem:
		return decimal.NewFromInt(6000), true
	case AddOnHappyBirthdayBalloon:
		return decimal.NewFromInt(15000), true
	case AddOnHeartBalloon:
		return decimal.NewFromInt(12000), true
	default:
		return decimal.Zero, false
	}
}

// ToppingsSurcharge sums the surcharge of every selected topping. Unknown
// toppings contribute nothing and are reported back.
func ToppingsSurcharge(toppings []Topping) (total decimal.Decimal, unknown []Topping) {
	total = decimal.Zero
	for _, t := range toppings {
		surcharge, ok := ToppingSurcharge(t)
		if !ok {
			unknown = append(unknown, t)
			continue
		}
		total = total.Add(surcharge)
	}
	return total, unknown
}

func AddOnsSurcharge(addOns []AddOn) (total decimal.Decimal, unknown []AddOn) {
	total = decimal.Zero
	for _, a := range addOns {
		surcharge, ok := AddOnSurcharge(a)
		if !ok {
			unknown = append(unknown, a)
			continue
		}
		total = total.Add(surcharge)
	}
	return total, unknown
}
