package pricing

import (
	"errors"
	"fmt"
)

var ErrUnknownOption = errors.New("unknown customization option")

type (
	Size    string
	Layers  string
	Flavour string
	Upgrade string
	Topping string
	AddOn   string
)

const (
	SizeUnselected Size = ""
	Size6Inches    Size = "6 inches"
	Size8Inches    Size = "8 inches"
	Size10Inches   Size = "10 inches"
)

const (
	LayersUnselected Layers = ""
	Layers1          Layers = "1 layer"
	Layers2          Layers = "2 layers"
	Layers3          Layers = "3 layers"
)

const (
	FlavourNone      Flavour = "None"
	FlavourRedVelvet Flavour = "Red Velvet"
	FlavourVanilla   Flavour = "Vanilla"
	FlavourChocolate Flavour = "Chocolate"
)

const (
	UpgradeNone              Upgrade = "None"
	UpgradeOneToTwoLayers    Upgrade = "1 Layer-2 Layers"
	UpgradeThreeToFiveLayers Upgrade = "3 Layers-5 Layers"
	UpgradeTieredCake        Upgrade = "Tiered Cake"
)

const (
	ToppingMixed Topping = "Mixed Toppings"
)

const (
	AddOnCupcakeCandle        AddOn = "Cupcake Candle"
	AddOnGoldCakeCandle       AddOn = "Gold Cake Candle"
	AddOnAcrylicAgeTopper     AddOn = "Acrylic Age Topper"
	AddOnRoseStem             AddOn = "Flowers: A Stem of Rose"
	AddOnChrysanthemumStem    AddOn = "Flowers: A Stem of Chrysanthemum"
	AddOnHappyBirthdayBalloon AddOn = "Balloon: Classic Happy Birthday (Helium Filled)"
	AddOnHeartBalloon         AddOn = "Balloon: Classic Heart (Helium Filled)"
)

var (
	Sizes    = []Size{Size6Inches, Size8Inches, Size10Inches}
	Flavours = []Flavour{FlavourNone, FlavourRedVelvet, FlavourVanilla, FlavourChocolate}
	Upgrades = []Upgrade{
		UpgradeNone,
		UpgradeOneToTwoLayers,
		UpgradeThreeToFiveLayers,
		UpgradeTieredCake,
	}
	Toppings = []Topping{ToppingMixed}
	AddOns   = []AddOn{
		AddOnCupcakeCandle,
		AddOnGoldCakeCandle,
		AddOnAcrylicAgeTopper,
		AddOnRoseStem,
		AddOnChrysanthemumStem,
		AddOnHappyBirthdayBalloon,
		AddOnHeartBalloon,
	}
)

func (s Size) IsSelected() bool { return s != SizeUnselected }

func (s Size) Valid() bool {
	_, ok := sizeLayerPrices[s]
	return ok
}

func (s *Size) UnmarshalText(text []byte) error {
	v := Size(text)
	if v != SizeUnselected && !v.Valid() {
		return fmt.Errorf("%w: size=%q", ErrUnknownOption, v)
	}
	*s = v
	return nil
}

func (l Layers) IsSelected() bool { return l != LayersUnselected }

func (l Layers) Valid() bool {
	switch l {
	case Layers1, Layers2, Layers3:
		return true
	}
	return false
}

func (l *Layers) UnmarshalText(text []byte) error {
	v := Layers(text)
	if v != LayersUnselected && !v.Valid() {
		return fmt.Errorf("%w: layers=%q", ErrUnknownOption, v)
	}
	*l = v
	return nil
}

func (f Flavour) IsSelected() bool { return f != FlavourNone && f != "" }

func (f Flavour) Valid() bool {
	switch f {
	case FlavourNone, FlavourRedVelvet, FlavourVanilla, FlavourChocolate:
		return true
	}
	return false
}

// UnmarshalText maps an empty value to FlavourNone.
func (f *Flavour) UnmarshalText(text []byte) error {
	v := Flavour(text)
	if v == "" {
		v = FlavourNone
	}
	if !v.Valid() {
		return fmt.Errorf("%w: flavour=%q", ErrUnknownOption, v)
	}
	*f = v
	return nil
}

func (u Upgrade) IsSelected() bool { return u != UpgradeNone && u != "" }

func (u Upgrade) Valid() bool {
	switch u {
	case UpgradeNone, UpgradeOneToTwoLayers, UpgradeThreeToFiveLayers, UpgradeTieredCake:
		return true
	}
	return false
}

// UnmarshalText maps an empty value to UpgradeNone.
func (u *Upgrade) UnmarshalText(text []byte) error {
	v := Upgrade(text)
	if v == "" {
		v = UpgradeNone
	}
	if !v.Valid() {
		return fmt.Errorf("%w: upgrade=%q", ErrUnknownOption, v)
	}
	*u = v
	return nil
}

func (t Topping) Valid() bool {
	_, ok := ToppingSurcharge(t)
	return ok
}

func (t *Topping) UnmarshalText(text []byte) error {
	v := Topping(text)
	if !v.Valid() {
		return fmt.Errorf("%w: topping=%q", ErrUnknownOption, v)
	}
	*t = v
	return nil
}

func (a AddOn) Valid() bool {
	_, ok := AddOnSurcharge(a)
	return ok
}

func (a *AddOn) UnmarshalText(text []byte) error {
	v := AddOn(text)
	if !v.Valid() {
		return fmt.Errorf("%w: addOn=%q", ErrUnknownOption, v)
	}
	*a = v
	return nil
}
