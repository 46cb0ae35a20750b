package ctdf

// BoardEntry is one configured route and stop, as stored in the settings file
type BoardEntry struct {
	Operator    OperatorID `yaml:"operator" json:"operator" validate:"required,oneof=kmb mtr_lrt mtr_bus mtr_train" groups:"basic"`
	Route       string     `yaml:"route" json:"route" validate:"required" groups:"basic"`
	Direction   Direction  `yaml:"direction" json:"direction" validate:"required" groups:"basic"`
	ServiceType int        `yaml:"service_type,omitempty" json:"service_type,omitempty" validate:"gte=0" groups:"basic"`
	Stop        string     `yaml:"stop" json:"stop" validate:"required" groups:"basic"`
	Lang        Language   `yaml:"lang" json:"lang" validate:"omitempty,oneof=tc sc en" groups:"basic"`
}

func (e BoardEntry) RouteKey() RouteKey {
	return NewRouteKey(e.Operator, e.Route, e.Direction, e.ServiceType)
}

func (e BoardEntry) StopRef() StopRef {
	return NewStopRef(e.Stop)
}

func (e BoardEntry) Language() Language {
	if e.Lang == "" {
		return LanguageTC
	}
	return e.Lang
}
