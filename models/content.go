// models/content.go
package models

// Pillar is one of the four SHIFT program pillars shown on the landing page
type Pillar struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Problem  string `json:"problem"`
	Solution string `json:"solution"`
	Benefit  string `json:"benefit"`
}

// CenterFeature describes one facility of a local SHIFT center
type CenterFeature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// HousingFeature describes one benefit of the housing program
type HousingFeature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// FormOptions holds the fixed option lists of the housing application form
type FormOptions struct {
	Governorates []string `json:"governorates"`
	HousingTypes []string `json:"housingTypes"`
}

// Site content is fixed program copy, not user data, so it lives here rather
// than in the database.

var Pillars = []Pillar{
	{
		Title:    "Medical",
		Subtitle: "Your Doctor is Just Down the Street",
		Problem:  `People move to Cairo because they think the "best" doctors are only there.`,
		Solution: "Small clinics in your town with Tele-Health screens. You sit in a private room and talk to the top specialists in Cairo via video.",
		Benefit:  `You get "Big City" healthcare without the "Big City" travel costs or traffic.`,
	},
	{
		Title:    "Government",
		Subtitle: `No More Trips to the "Mugamma"`,
		Problem:  "To get a passport, a license, or a birth certificate, you often have to travel to a major city office.",
		Solution: "Digital kiosks in your local SHIFT center. If you can use an ATM, you can use SHIFT. You scan your papers, and a clerk in Cairo approves them instantly from miles away.",
		Benefit:  "Save your time and your money. Your local center handles everything.",
	},
	{
		Title:    "Media",
		Subtitle: "Telling Your Story",
		Problem:  `TV shows and news make it look like "success" only happens in Cairo.`,
		Solution: `We use social media and local "Hub Studios" to show that you can be a successful business owner or a happy family in a smaller town.`,
		Benefit:  "It changes the way we think. It makes people proud of their hometowns instead of wanting to leave them.",
	},
	{
		Title:    "Financial",
		Subtitle: "Jobs Where You Live",
		Problem:  "It's hard to start a business in a small town because the banks and the big money are all in the capital.",
		Solution: `SHIFT centers offer "Stay-Local" grants. If you start a business in a secondary city, you get lower taxes and easier loans.`,
		Benefit:  "Better jobs for youth in their own governorates, so they don't have to leave their families to find work.",
	},
}

var CenterFeatures = []CenterFeature{
	{
		Title:       "Doctor's Room",
		Description: "A private consultation space with a computer for tele-health appointments with specialists",
	},
	{
		Title:       "Document Desk",
		Description: "A computer desk for processing ID papers, licenses, and government documents",
	},
	{
		Title:       "Free Wi-Fi Zone",
		Description: "High-speed internet access where students and workers can connect for free",
	},
	{
		Title:       "Business Help Desk",
		Description: "Expert guidance and support for starting and growing your small business",
	},
}

var HousingFeatures = []HousingFeature{
	{
		Title:       "Affordable Housing",
		Description: "Government-supervised apartments at fair prices with flexible payment plans",
	},
	{
		Title:       "Easy Payments",
		Description: "Pay in monthly installments, not one lump sum. Plans up to 20 years",
	},
	{
		Title:       "Job Opportunities",
		Description: "Find employment in new desert cities with growing industries",
	},
	{
		Title:       "New Cities",
		Description: "Modern infrastructure in desert development zones across Egypt",
	},
	{
		Title:       "Community Living",
		Description: "Join thriving communities with schools, hospitals, and amenities",
	},
	{
		Title:       "Quality Construction",
		Description: "New buildings with modern standards under government quality control",
	},
}

var Governorates = []string{
	"New Cairo", "6th of October", "New Administrative Capital",
	"El Alamein", "New Mansoura", "Borg El Arab",
	"New Assiut", "New Sohag", "New Minya",
}

var HousingTypes = []string{
	"Studio Apartment", "1-Bedroom", "2-Bedroom", "3-Bedroom", "Villa",
}
