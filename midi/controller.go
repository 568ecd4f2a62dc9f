package midi

import "fmt"

// Controller is the controller number of a control change message.
type Controller uint8

const (
	BankSelect         Controller = 0x00
	Modulation         Controller = 0x01
	BreathController   Controller = 0x02
	FootController     Controller = 0x04
	PortamentoTime     Controller = 0x05
	DataEntryMSB       Controller = 0x06
	MainVolume         Controller = 0x07
	Balance            Controller = 0x08
	Pan                Controller = 0x0A
	Expression         Controller = 0x0B
	EffectControl1     Controller = 0x0C
	EffectControl2     Controller = 0x0D
	DamperPedal        Controller = 0x40
	Portamento         Controller = 0x41
	Sostenuto          Controller = 0x42
	SoftPedal          Controller = 0x43
	LegatoFootswitch   Controller = 0x44
	Hold2              Controller = 0x45
	PortamentoControl  Controller = 0x54
	DataIncrement      Controller = 0x60
	DataDecrement      Controller = 0x61
	NonRegisteredLSB   Controller = 0x62
	NonRegisteredMSB   Controller = 0x63
	RegisteredParamLSB Controller = 0x64
	RegisteredParamMSB Controller = 0x65
)

var controllerNames = map[Controller]string{
	BankSelect:         "bank select",
	Modulation:         "modulation",
	BreathController:   "breath controller",
	FootController:     "foot controller",
	PortamentoTime:     "portamento time",
	DataEntryMSB:       "data entry msb",
	MainVolume:         "main volume",
	Balance:            "balance",
	Pan:                "pan",
	Expression:         "expression",
	EffectControl1:     "effect control 1",
	EffectControl2:     "effect control 2",
	DamperPedal:        "damper pedal",
	Portamento:         "portamento",
	Sostenuto:          "sostenuto",
	SoftPedal:          "soft pedal",
	LegatoFootswitch:   "legato footswitch",
	Hold2:              "hold 2",
	PortamentoControl:  "portamento control",
	DataIncrement:      "data increment",
	DataDecrement:      "data decrement",
	NonRegisteredLSB:   "non-registered parameter lsb",
	NonRegisteredMSB:   "non-registered parameter msb",
	RegisteredParamLSB: "registered parameter lsb",
	RegisteredParamMSB: "registered parameter msb",
}

// Defined reports whether c has an assigned meaning.
func (c Controller) Defined() bool {
	_, ok := c.name()
	return ok
}

func (c Controller) String() string {
	if name, ok := c.name(); ok {
		return name
	}
	return fmt.Sprintf("undefined controller 0x%02x", uint8(c))
}

func (c Controller) name() (string, bool) {
	if name, ok := controllerNames[c]; ok {
		return name, true
	}
	switch {
	case c >= 0x10 && c <= 0x13:
		return fmt.Sprintf("general purpose %d", c-0x10+1), true
	case c >= 0x20 && c <= 0x3F:
		return fmt.Sprintf("lsb for controller %d", c-0x20), true
	case c >= 0x46 && c <= 0x4F:
		return fmt.Sprintf("sound controller %d", c-0x46+1), true
	case c >= 0x50 && c <= 0x53:
		return fmt.Sprintf("general purpose %d", c-0x50+5), true
	case c >= 0x5B && c <= 0x5F:
		return fmt.Sprintf("effects %d depth", c-0x5B+1), true
	case c >= 0x79 && c <= 0x7F:
		return fmt.Sprintf("mode message %d", c-0x79), true
	}
	return "", false
}
