package symptoms

// semanticGroups are fixed curated vocabulary sets used to link
// differently-worded but related symptom descriptions. A group counts as hit
// when both the symptom phrase and the input contain a word from it.
var semanticGroups = map[string][]string{
	"color_problems": {
		"yellow", "brown", "black", "white", "pale", "faded", "discolored",
	},
	"texture_problems": {
		"mushy", "crispy", "dry", "soft", "brittle", "slimy", "wrinkled",
	},
	"shape_problems": {
		"curling", "drooping", "wilting", "twisted", "deformed", "limp",
	},
	"growth_problems": {
		"leggy", "stunted", "sparse", "stretching", "small", "weak",
	},
	"water_signals": {
		"soggy", "wet", "damp", "parched", "thirsty", "overwatered", "underwatered",
	},
	"light_signals": {
		"scorched", "burnt", "bleached", "leaning", "reaching", "sunburn",
	},
	"pest_problems": {
		"bugs", "insects", "webbing", "sticky", "holes", "spots", "gnats",
	},
}
