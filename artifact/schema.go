package artifact

const modelSchema = `{
  "type": "object",
  "required": ["type", "feature_names", "classes", "coef", "intercept"],
  "properties": {
    "type": {"type": "string", "enum": ["logistic_regression"]},
    "feature_names": {"type": "array", "items": {"type": "string"}},
    "classes": {"type": "array", "minItems": 2, "items": {"type": "integer"}},
    "coef": {
      "type": "array",
      "minItems": 1,
      "items": {"type": "array", "items": {"type": "number"}}
    },
    "intercept": {"type": "array", "minItems": 1, "items": {"type": "number"}}
  }
}`

const scalerSchema = `{
  "type": "object",
  "required": ["type", "feature_names", "mean", "scale"],
  "properties": {
    "type": {"type": "string", "enum": ["standard_scaler"]},
    "feature_names": {"type": "array", "items": {"type": "string"}},
    "mean": {"type": "array", "items": {"type": "number"}},
    "scale": {"type": "array", "items": {"type": "number", "minimum": 0}}
  }
}`

const encodersSchema = `{
  "type": "object",
  "minProperties": 1,
  "additionalProperties": {
    "type": "array",
    "minItems": 1,
    "uniqueItems": true,
    "items": {"type": "string"}
  }
}`
