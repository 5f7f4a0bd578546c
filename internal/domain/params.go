package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// realTag accepts text that parses as a float, including inf and infinity,
// and rejects NaN.
const realTag = "real"

const (
	ruleRequired = "required"
	ruleNumeric  = "required," + realTag
)

var paramValidate = newParamValidator()

func newParamValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation(realTag, func(fl validator.FieldLevel) bool {
		_, err := parseNumber(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", realTag, err))
	}
	return v
}

// systemRules are the satellite wide parameters, in reporting order.
func systemRules() []paramRule {
	return []paramRule{
		{ParamSystemID, ruleRequired},
		{ParamOrbitSemimajorAxis, ruleNumeric},
		{ParamOrbitEccentricity, ruleNumeric},
		{ParamPlanetMass, ruleNumeric},
		{ParamNSRPeriod, ruleNumeric},
	}
}

// layerRules are the per-layer parameters for layers 0..NumLayers-1.
func layerRules() []paramRule {
	var rules []paramRule
	for n := 0; n < NumLayers; n++ {
		rules = append(rules,
			paramRule{layerParamName(paramLayerID, n), ruleRequired},
			paramRule{layerParamName(paramDensity, n), ruleNumeric},
			paramRule{layerParamName(paramLameMu, n), ruleNumeric},
			paramRule{layerParamName(paramLameLambda, n), ruleNumeric},
			paramRule{layerParamName(paramThickness, n), ruleNumeric},
			paramRule{layerParamName(paramViscosity, n), ruleNumeric},
			paramRule{layerParamName(paramTensileStr, n), ruleNumeric},
		)
	}
	return rules
}

type paramRule struct {
	name string
	tags string
}

// CountLayers returns the number of layers declared in params, i.e. the
// number of names beginning with LAYER_ID.
func CountLayers(params map[string]string) int {
	count := 0
	for name := range params {
		if strings.HasPrefix(name, paramLayerID) {
			count++
		}
	}
	return count
}

// ValidateParams checks params in three stages, stopping at the first stage
// that fails: the satellite wide parameters must be present and numeric,
// exactly four layers must be declared, and every layer parameter must be
// present and numeric. Within a stage all problems are reported together.
func ValidateParams(params map[string]string) error {
	if err := checkRules(params, systemRules()); err != nil {
		return err
	}
	if n := CountLayers(params); n != NumLayers {
		return &ValidationError{
			Kind:   ErrUnsupportedLayerCount,
			Layer:  noLayer,
			Value:  float64(n),
			Detail: fmt.Sprintf("the Love number code supports exactly %d layers (core, ocean, lower ice, upper ice)", NumLayers),
		}
	}
	return checkRules(params, layerRules())
}

// checkRules validates params against rules and converts validator field
// errors into ValidationErrors, in rule order. A blank value counts as
// missing.
func checkRules(params map[string]string, rules []paramRule) error {
	data := make(map[string]interface{}, len(rules))
	tags := make(map[string]interface{}, len(rules))
	for _, r := range rules {
		if raw, ok := params[r.name]; ok {
			data[r.name] = strings.TrimSpace(raw)
		}
		tags[r.name] = r.tags
	}

	failed := paramValidate.ValidateMap(data, tags)
	if len(failed) == 0 {
		return nil
	}

	var errs []error
	for _, r := range rules {
		v, ok := failed[r.name]
		if !ok {
			continue
		}
		err, _ := v.(error)
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && len(fields) > 0 && fields[0].Tag() == realTag {
			errs = append(errs, &ValidationError{Kind: ErrNonNumericParameter, Param: r.name, Layer: noLayer, Raw: params[r.name]})
			continue
		}
		errs = append(errs, &ValidationError{Kind: ErrMissingParameter, Param: r.name, Layer: noLayer})
	}
	return errors.Join(errs...)
}

// parseNumber parses a float, accepting inf/infinity but rejecting NaN.
func parseNumber(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) {
		return 0, fmt.Errorf("NaN is not a valid parameter value")
	}
	return v, nil
}
