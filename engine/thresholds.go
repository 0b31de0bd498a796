package engine

import "github.com/aerotechavionics/ehms/model"

// Threshold is one row of the static alert table. The message template
// takes the 1-based engine number.
type Threshold struct {
	Param       model.ParamID
	Level       model.AlertLevel
	Value       float32
	Direction   model.Direction
	DisplayCode uint16
	Message     string
}

// exceeded evaluates the exceedance sense of the row.
func (t *Threshold) exceeded(v float32) bool {
	if t.Direction == model.DirectionHigh {
		return v >= t.Value
	}
	return v <= t.Value
}

// receded reports whether the value has cleared past the threshold by
// the hysteresis margin (a percentage of the threshold).
func (t *Threshold) receded(v float32, hysteresisPct float32) bool {
	margin := t.Value * hysteresisPct / 100
	if t.Direction == model.DirectionHigh {
		return v <= t.Value-margin
	}
	return v >= t.Value+margin
}

// DefaultThresholds is the certified alert table, ordered by severity
// descending so warnings are evaluated before cautions within a tick.
var DefaultThresholds = []Threshold{
	{model.ParamEGT, model.AlertWarning, 1000.0, model.DirectionHigh, 0x1002, "ENG %d EGT OVERLIMIT"},
	{model.ParamOilPress, model.AlertWarning, 15.0, model.DirectionLow, 0x2002, "ENG %d OIL PRESS CRIT"},
	{model.ParamOilTemp, model.AlertWarning, 155.0, model.DirectionHigh, 0x2004, "ENG %d OIL TEMP CRIT"},
	{model.ParamVibFan, model.AlertWarning, 5.0, model.DirectionHigh, 0x3002, "ENG %d FAN VIB CRIT"},
	{model.ParamVibCore, model.AlertWarning, 6.0, model.DirectionHigh, 0x3004, "ENG %d CORE VIB CRIT"},
	{model.ParamN1, model.AlertWarning, 104.0, model.DirectionHigh, 0x4001, "ENG %d N1 OVERLIMIT"},
	{model.ParamN2, model.AlertWarning, 105.0, model.DirectionHigh, 0x4002, "ENG %d N2 OVERLIMIT"},
	{model.ParamEGT, model.AlertCaution, 950.0, model.DirectionHigh, 0x1001, "ENG %d EGT HIGH"},
	{model.ParamOilPress, model.AlertCaution, 25.0, model.DirectionLow, 0x2001, "ENG %d OIL PRESS LO"},
	{model.ParamOilTemp, model.AlertCaution, 140.0, model.DirectionHigh, 0x2003, "ENG %d OIL TEMP HI"},
	{model.ParamVibFan, model.AlertCaution, 3.0, model.DirectionHigh, 0x3001, "ENG %d FAN VIB HI"},
	{model.ParamVibCore, model.AlertCaution, 4.0, model.DirectionHigh, 0x3003, "ENG %d CORE VIB HI"},
}

// validateThresholds checks the static table at init; a bad row is a
// Fatal condition.
func validateThresholds(rows []Threshold) error {
	for i := range rows {
		t := &rows[i]
		if int(t.Param) >= model.ParamCount {
			return model.ErrOutOfRange
		}
		if t.Level < model.AlertStatus || t.Level > model.AlertWarning {
			return model.ErrOutOfRange
		}
		if t.Message == "" || t.DisplayCode == 0 {
			return model.ErrBadArg
		}
		if i > 0 && rows[i-1].Level < t.Level {
			return model.ErrBadArg // must be ordered severity descending
		}
	}
	return nil
}
