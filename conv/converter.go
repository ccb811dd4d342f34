package conv

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultDateLayout is the default layout used for time parsing when no layout is specified
const DefaultDateLayout = "2006-01-02 15:04:05.000"

// ErrUnsupported reports destination types the converter does not coerce
var ErrUnsupported = errors.New("unsupported conversion")

var timeType = reflect.TypeOf(time.Time{})

// float64 bounds of int64 and uint64, upper bounds are exclusive
const (
	minIntFloat  = -(1 << 63)
	maxIntFloat  = 1 << 63
	maxUintFloat = 1 << 64
)

// fallbackLayouts are tried in order once the configured layout fails
var fallbackLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Options contains configuration for the converter
type Options struct {
	// DateLayout specifies the layout for time parsing and formatting
	DateLayout string
}

// DefaultOptions returns default conversion options
func DefaultOptions() Options {
	return Options{DateLayout: DefaultDateLayout}
}

// ConversionFunc defines a custom conversion function
type ConversionFunc func(src interface{}, opts Options) (interface{}, error)

type typeKey struct {
	srcType  reflect.Type
	destType reflect.Type
}

// Converter coerces primitive values between types
type Converter struct {
	options       Options
	customConvMap sync.Map // map[typeKey]ConversionFunc
}

// NewConverter creates a new type converter with the provided options
func NewConverter(options Options) *Converter {
	return &Converter{options: options}
}

// RegisterConversion registers a custom conversion function between source and destination types
func (c *Converter) RegisterConversion(srcType, destType reflect.Type, fn ConversionFunc) {
	c.customConvMap.Store(typeKey{srcType, destType}, fn)
}

// Convert converts the source value into destination pointer
func (c *Converter) Convert(src interface{}, dest interface{}) error {
	if dest == nil {
		return errors.New("destination cannot be nil")
	}
	destValue := reflect.ValueOf(dest)
	if destValue.Kind() != reflect.Ptr || destValue.IsNil() {
		return errors.New("destination must be a non nil pointer")
	}
	value, err := c.ConvertTo(src, destValue.Elem().Type())
	if err != nil {
		return err
	}
	destValue.Elem().Set(value)
	return nil
}

// ConvertTo converts the source value into a value of destination type
func (c *Converter) ConvertTo(src interface{}, destType reflect.Type) (reflect.Value, error) {
	if src == nil {
		return reflect.Zero(destType), nil
	}
	srcValue := reflect.ValueOf(src)
	if fn, ok := c.customConvMap.Load(typeKey{srcValue.Type(), destType}); ok {
		converted, err := fn.(ConversionFunc)(src, c.options)
		if err != nil {
			return reflect.Value{}, err
		}
		return c.ConvertTo(converted, destType)
	}
	if srcValue.Type().AssignableTo(destType) {
		return srcValue, nil
	}
	if destType.Kind() == reflect.Ptr {
		srcValue = indirect(srcValue)
		if !srcValue.IsValid() {
			return reflect.Zero(destType), nil
		}
		elem, err := c.ConvertTo(srcValue.Interface(), destType.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(destType.Elem())
		ptr.Elem().Set(elem)
		return ptr, nil
	}
	if srcValue = indirect(srcValue); !srcValue.IsValid() {
		return reflect.Zero(destType), nil
	}
	if destType == timeType {
		t, err := c.toTime(srcValue)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(t), nil
	}
	result := reflect.New(destType).Elem()
	var err error
	switch destType.Kind() {
	case reflect.String:
		var text string
		if text, err = c.toString(srcValue); err == nil {
			result.SetString(text)
		}
	case reflect.Bool:
		var flag bool
		if flag, err = toBool(srcValue); err == nil {
			result.SetBool(flag)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var i int64
		if i, err = toInt(srcValue); err == nil {
			if result.OverflowInt(i) {
				return reflect.Value{}, fmt.Errorf("value %v overflows %v", i, destType)
			}
			result.SetInt(i)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		var u uint64
		if u, err = toUint(srcValue); err == nil {
			if result.OverflowUint(u) {
				return reflect.Value{}, fmt.Errorf("value %v overflows %v", u, destType)
			}
			result.SetUint(u)
		}
	case reflect.Float32, reflect.Float64:
		var f float64
		if f, err = toFloat(srcValue); err == nil {
			result.SetFloat(f)
		}
	default:
		if srcValue.Type().ConvertibleTo(destType) && srcValue.Kind() == destType.Kind() {
			return srcValue.Convert(destType), nil
		}
		return reflect.Value{}, fmt.Errorf("%w: %v to %v", ErrUnsupported, srcValue.Type(), destType)
	}
	if err != nil {
		return reflect.Value{}, err
	}
	return result, nil
}

// FormatTime formats time with supplied layout or converter date layout
func (c *Converter) FormatTime(t time.Time, layout string) string {
	if layout == "" {
		layout = c.options.DateLayout
	}
	if layout == "" {
		layout = time.RFC3339Nano
	}
	return t.Format(layout)
}

// ParseTime parses time with supplied layout, falling back to common layouts
func (c *Converter) ParseTime(value string, layout string) (time.Time, error) {
	if layout == "" {
		layout = c.options.DateLayout
	}
	if layout != "" {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	var err error
	for _, candidate := range fallbackLayouts {
		var t time.Time
		if t, err = time.Parse(candidate, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time string '%s': %w", value, err)
}

func (c *Converter) toString(srcValue reflect.Value) (string, error) {
	switch srcValue.Kind() {
	case reflect.String:
		return srcValue.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(srcValue.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(srcValue.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(srcValue.Uint(), 10), nil
	case reflect.Float32:
		return strconv.FormatFloat(srcValue.Float(), 'f', -1, 32), nil
	case reflect.Float64:
		return strconv.FormatFloat(srcValue.Float(), 'f', -1, 64), nil
	case reflect.Slice:
		if srcValue.Type().Elem().Kind() == reflect.Uint8 {
			return string(srcValue.Bytes()), nil
		}
	case reflect.Struct:
		if srcValue.Type() == timeType {
			return c.FormatTime(srcValue.Interface().(time.Time), ""), nil
		}
	}
	return "", fmt.Errorf("%w: %v to string", ErrUnsupported, srcValue.Type())
}

func toBool(srcValue reflect.Value) (bool, error) {
	switch srcValue.Kind() {
	case reflect.Bool:
		return srcValue.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return srcValue.Int() != 0, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return srcValue.Uint() != 0, nil
	case reflect.Float32, reflect.Float64:
		return srcValue.Float() != 0, nil
	case reflect.String:
		text := srcValue.String()
		flag, err := strconv.ParseBool(text)
		if err == nil {
			return flag, nil
		}
		if f, fErr := strconv.ParseFloat(text, 64); fErr == nil {
			return f != 0, nil
		}
		return false, err
	}
	return false, fmt.Errorf("%w: %v to bool", ErrUnsupported, srcValue.Type())
}

func toInt(srcValue reflect.Value) (int64, error) {
	switch srcValue.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return srcValue.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := srcValue.Uint()
		if u > math.MaxInt64 {
			return 0, fmt.Errorf("value %v overflows int64", u)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		return floatToInt(srcValue.Float())
	case reflect.Bool:
		if srcValue.Bool() {
			return 1, nil
		}
		return 0, nil
	case reflect.String:
		text := strings.TrimSpace(srcValue.String())
		if strings.Contains(text, ".") {
			f, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return 0, err
			}
			return floatToInt(f)
		}
		return strconv.ParseInt(text, 0, 64)
	}
	return 0, fmt.Errorf("%w: %v to int", ErrUnsupported, srcValue.Type())
}

func floatToInt(f float64) (int64, error) {
	if math.IsNaN(f) || f < minIntFloat || f >= maxIntFloat {
		return 0, fmt.Errorf("value %v overflows int64", f)
	}
	return int64(f), nil
}

func toUint(srcValue reflect.Value) (uint64, error) {
	switch srcValue.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Float32, reflect.Float64, reflect.String:
		if srcValue.Kind() == reflect.String && !strings.Contains(srcValue.String(), ".") {
			return strconv.ParseUint(strings.TrimSpace(srcValue.String()), 0, 64)
		}
		f, err := toFloat(srcValue)
		if err != nil {
			return 0, err
		}
		if f < 0 {
			return 0, fmt.Errorf("cannot convert negative value %v to unsigned int", f)
		}
		if math.IsNaN(f) || f >= maxUintFloat {
			return 0, fmt.Errorf("value %v overflows uint64", f)
		}
		return uint64(f), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return srcValue.Uint(), nil
	case reflect.Bool:
		if srcValue.Bool() {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("%w: %v to uint", ErrUnsupported, srcValue.Type())
}

func toFloat(srcValue reflect.Value) (float64, error) {
	switch srcValue.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(srcValue.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(srcValue.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return srcValue.Float(), nil
	case reflect.Bool:
		if srcValue.Bool() {
			return 1, nil
		}
		return 0, nil
	case reflect.String:
		return strconv.ParseFloat(strings.TrimSpace(srcValue.String()), 64)
	}
	return 0, fmt.Errorf("%w: %v to float", ErrUnsupported, srcValue.Type())
}

func (c *Converter) toTime(srcValue reflect.Value) (time.Time, error) {
	switch srcValue.Kind() {
	case reflect.String:
		return c.ParseTime(srcValue.String(), "")
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return unixTime(srcValue.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return unixTime(int64(srcValue.Uint())), nil
	case reflect.Float32, reflect.Float64:
		seconds := int64(srcValue.Float())
		nanos := int64((srcValue.Float() - float64(seconds)) * 1e9)
		return time.Unix(seconds, nanos), nil
	case reflect.Struct:
		if srcValue.Type() == timeType {
			return srcValue.Interface().(time.Time), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %v to time.Time", ErrUnsupported, srcValue.Type())
}

// unixTime treats very large values as nanoseconds
func unixTime(value int64) time.Time {
	if value > 1e10 {
		return time.Unix(0, value)
	}
	return time.Unix(value, 0)
}

func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}
