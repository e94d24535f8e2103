package normalizer

// euGroupShortNames maps the political groups' full directory names to
// their customary short labels. unknown names pass through unchanged.
var euGroupShortNames = map[string]string{
	"Group of the European People's Party (Christian Democrats)":                           "EPP",
	"Group of the Progressive Alliance of Socialists and Democrats in the European Parliament": "S&D",
	"Renew Europe Group": "Renew",
	"Group of the Greens/European Free Alliance":        "Greens/EFA",
	"European Conservatives and Reformists Group":       "ECR",
	"Identity and Democracy Group":                      "ID",
	"The Left group in the European Parliament - GUE/NGL": "The Left",
	"Non-attached Members":                              "NI",
}
