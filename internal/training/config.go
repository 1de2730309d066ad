package training

import (
	"errors"
	"fmt"
	"math"

	"github.com/eugenenazirov/semparse-config/internal/parser"
)

// Keys read from the external environment.
const (
	KeyTrainDataPath      = "TRAINING_DATA_FILE"
	KeyValidationDataPath = "VAL_DATA_FILE"
	KeyBidafModelPath     = "BIDAF_MODEL_TAR"
	KeyBidafWordEmbFile   = "BIDAF_WORDEMB_FILE"
	KeyCUDADevice         = "GPU"
	KeyNumEpochs          = "EPOCHS"
	KeyBatchSize          = "BATCH_SIZE"
	KeyLearningRate       = "LR"
	KeyWeightDecay        = "WEIGHT_DECAY"
	KeyPatience           = "PATIENCE"
	KeyDropout            = "DROPOUT"
	KeyBeamSize           = "BEAMSIZE"
	KeyMaxDecodingSteps   = "MAX_DECODE_STEP"
	KeyGoldActions        = "GOLDACTIONS"
	KeyAuxGoldProgLoss    = "AUXGPLOSS"
	KeyQAttCoverageLoss   = "QATTLOSS"
	KeyDebug              = "DEBUG"
	KeyMinPassageLength   = "MIN_PASSAGE_LENGTH"
	KeyMaxPassageLength   = "MAX_PASSAGE_LENGTH"
	KeyMaxSpanLength      = "MAX_SPAN_LENGTH"
	KeyNumTrainingSamples = "NUM_TRAINING_SAMPLES"
	KeyAttnValue          = "ATTNVAL"
	KeyNormalized         = "NORMALIZED"
	KeyWithNoise          = "WITHNOISE"
)

const (
	ModelType          = "drop_parser"
	DatasetReaderType  = "passage_attn2span_reader"
	OptimizerType      = "adam"
	IteratorType       = "basic"
	ValidationMetric   = "+f1"
	ActionEmbeddingDim = 100
	NumHighwayLayers   = 2
)

// Config is the fully resolved and validated training configuration.
type Config struct {
	TrainDataPath          string
	ValidationDataPath     string
	BidafModelPath         string
	BidafWordEmbeddingFile string

	CUDADevice       int
	NumEpochs        int
	BatchSize        int
	LearningRate     float64
	WeightDecay      float64
	Patience         int
	Dropout          float64
	BeamSize         int
	MaxDecodingSteps int

	GoldActions      bool
	AuxGoldProgLoss  bool
	QAttCoverageLoss bool
	Debug            bool

	MinPassageLength   int
	MaxPassageLength   int
	MaxSpanLength      int
	NumTrainingSamples int
	AttnValue          float64
	Normalized         bool
	WithNoise          bool
}

// Keys returns every key Resolve reads, in document order.
func Keys() []string {
	return []string{
		KeyTrainDataPath, KeyValidationDataPath, KeyBidafModelPath, KeyBidafWordEmbFile,
		KeyCUDADevice, KeyNumEpochs, KeyBatchSize, KeyLearningRate, KeyWeightDecay, KeyPatience,
		KeyDropout, KeyBeamSize, KeyMaxDecodingSteps,
		KeyGoldActions, KeyAuxGoldProgLoss, KeyQAttCoverageLoss, KeyDebug,
		KeyMinPassageLength, KeyMaxPassageLength, KeyMaxSpanLength, KeyNumTrainingSamples,
		KeyAttnValue, KeyNormalized, KeyWithNoise,
	}
}

// Resolve reads every key from lookup and validates the result. All
// problems are reported together as joined *KeyError values.
func Resolve(lookup Lookup) (Config, error) {
	if lookup == nil {
		lookup = EnvLookup
	}
	r := &resolver{lookup: lookup}

	cfg := Config{
		TrainDataPath:          r.requiredString(KeyTrainDataPath),
		ValidationDataPath:     r.requiredString(KeyValidationDataPath),
		BidafModelPath:         r.requiredString(KeyBidafModelPath),
		BidafWordEmbeddingFile: r.optionalString(KeyBidafWordEmbFile, ""),

		CUDADevice:       r.optionalInt(KeyCUDADevice, -1),
		NumEpochs:        r.requiredInt(KeyNumEpochs),
		BatchSize:        r.optionalInt(KeyBatchSize, 4),
		LearningRate:     r.requiredFloat(KeyLearningRate),
		WeightDecay:      r.optionalFloat(KeyWeightDecay, 0),
		Patience:         r.optionalInt(KeyPatience, 10),
		Dropout:          r.requiredFloat(KeyDropout),
		BeamSize:         r.requiredInt(KeyBeamSize),
		MaxDecodingSteps: r.optionalInt(KeyMaxDecodingSteps, 14),

		GoldActions:      r.boolean(KeyGoldActions, false),
		AuxGoldProgLoss:  r.boolean(KeyAuxGoldProgLoss, false),
		QAttCoverageLoss: r.boolean(KeyQAttCoverageLoss, false),
		Debug:            r.boolean(KeyDebug, false),

		MinPassageLength:   r.optionalInt(KeyMinPassageLength, 200),
		MaxPassageLength:   r.optionalInt(KeyMaxPassageLength, 400),
		MaxSpanLength:      r.optionalInt(KeyMaxSpanLength, 10),
		NumTrainingSamples: r.optionalInt(KeyNumTrainingSamples, 2000),
		AttnValue:          r.optionalFloat(KeyAttnValue, 1.0),
		Normalized:         r.boolean(KeyNormalized, true),
		WithNoise:          r.boolean(KeyWithNoise, true),
	}

	r.check(KeyCUDADevice, cfg.CUDADevice >= -1, "must be -1 (CPU) or a device index")
	r.check(KeyNumEpochs, cfg.NumEpochs >= 1, "must be at least 1")
	r.check(KeyBatchSize, cfg.BatchSize >= 1, "must be at least 1")
	r.check(KeyLearningRate, cfg.LearningRate > 0, "must be positive")
	r.check(KeyWeightDecay, cfg.WeightDecay >= 0, "must not be negative")
	r.check(KeyPatience, cfg.Patience >= 0, "must not be negative")
	r.check(KeyDropout, cfg.Dropout >= 0 && cfg.Dropout < 1, "must be in [0, 1)")
	r.check(KeyBeamSize, cfg.BeamSize >= 1, "must be at least 1")
	r.check(KeyMaxDecodingSteps, cfg.MaxDecodingSteps >= 1, "must be at least 1")
	r.check(KeyMinPassageLength, cfg.MinPassageLength >= 1, "must be at least 1")
	r.check(KeyMaxPassageLength, cfg.MaxPassageLength >= cfg.MinPassageLength, "must not be below "+KeyMinPassageLength)
	r.check(KeyMaxSpanLength, cfg.MaxSpanLength >= 1, "must be at least 1")
	r.check(KeyNumTrainingSamples, cfg.NumTrainingSamples >= 1, "must be at least 1")
	r.check(KeyAttnValue, cfg.AttnValue > 0, "must be positive")

	if err := r.err(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type resolver struct {
	lookup Lookup
	errs   []error
}

func (r *resolver) fail(key string, err error) {
	r.errs = append(r.errs, &KeyError{Key: key, Err: err})
}

func (r *resolver) err() error {
	return errors.Join(r.errs...)
}

func (r *resolver) check(key string, ok bool, reason string) {
	if ok || r.failed(key) {
		return
	}
	r.fail(key, fmt.Errorf("%w: %s", ErrOutOfRange, reason))
}

func (r *resolver) failed(key string) bool {
	for _, err := range r.errs {
		var keyErr *KeyError
		if errors.As(err, &keyErr) && keyErr.Key == key {
			return true
		}
	}
	return false
}

// raw treats an empty value the same as an unset one.
func (r *resolver) raw(key string) (string, bool) {
	v, ok := r.lookup.Lookup(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (r *resolver) requiredString(key string) string {
	v, ok := r.raw(key)
	if !ok {
		r.fail(key, ErrMissingKey)
	}
	return v
}

func (r *resolver) optionalString(key, def string) string {
	if v, ok := r.raw(key); ok {
		return v
	}
	return def
}

func (r *resolver) boolean(key string, def bool) bool {
	if v, ok := r.raw(key); ok {
		return parser.ParseBoolean(v)
	}
	return def
}

func (r *resolver) number(key string) (parser.Number, bool) {
	v, ok := r.raw(key)
	if !ok {
		return parser.Number{}, false
	}
	n, err := parser.ParseNumber(v)
	if err != nil {
		r.fail(key, err)
		return parser.Number{}, false
	}
	return n, true
}

func (r *resolver) requiredFloat(key string) float64 {
	if _, ok := r.raw(key); !ok {
		r.fail(key, ErrMissingKey)
		return 0
	}
	n, _ := r.number(key)
	return n.Float64()
}

func (r *resolver) optionalFloat(key string, def float64) float64 {
	if _, ok := r.raw(key); !ok {
		return def
	}
	n, _ := r.number(key)
	return n.Float64()
}

func (r *resolver) requiredInt(key string) int {
	if _, ok := r.raw(key); !ok {
		r.fail(key, ErrMissingKey)
		return 0
	}
	return r.integer(key)
}

func (r *resolver) optionalInt(key string, def int) int {
	if _, ok := r.raw(key); !ok {
		return def
	}
	return r.integer(key)
}

func (r *resolver) integer(key string) int {
	n, ok := r.number(key)
	if !ok {
		return 0
	}
	v, ok := n.Int()
	if !ok {
		if math.Abs(n.Float64()) > math.MaxInt32 {
			r.fail(key, fmt.Errorf("%w: %s", ErrOutOfRange, n))
			return 0
		}
		r.fail(key, fmt.Errorf("%w: got %s", ErrNotInteger, n))
		return 0
	}
	if v > math.MaxInt32 || v < math.MinInt32 {
		r.fail(key, fmt.Errorf("%w: %d", ErrOutOfRange, v))
		return 0
	}
	return int(v)
}
