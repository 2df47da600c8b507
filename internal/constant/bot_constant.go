package constant

// SearchTypeOption is one entry of the search-type menu the bot presents
// after /search. Data is the callback payload the transport returns when
// the user picks the option.
type SearchTypeOption struct {
	Label string
	Data  string
}

// SearchTypeOptions is the fixed search-type menu, in display order. Menu
// content is configuration: adding an option here is all it takes for the
// dialogue to offer it.
var SearchTypeOptions = []SearchTypeOption{
	{Label: "🔍 Search by Query", Data: "searchbyquery"},
	{Label: "👤 Search by Profile", Data: "searchbyprofile"},
	{Label: "📚 Full Archive Search", Data: "searchbyfullarchive"},
	{Label: "🆔 Get by ID", Data: "getbyid"},
	{Label: "💬 Get Replies", Data: "getreplies"},
	{Label: "🔄 Get Retweeters", Data: "getretweeters"},
	{Label: "📝 Get Tweets", Data: "gettweets"},
	{Label: "🎬 Get Media", Data: "getmedia"},
	{Label: "👥 Get Profile by ID", Data: "getprofilebyid"},
	{Label: "📈 Get Trends", Data: "gettrends"},
	{Label: "➕ Get Following", Data: "getfollowing"},
	{Label: "👨‍👩‍👧‍👦 Get Followers", Data: "getfollowers"},
	{Label: "🎙️ Get Space", Data: "getspace"},
	{Label: "📋 Get Profile", Data: "getprofile"},
}

const (
	WelcomeMessage = "🔍 Welcome to Gopher Explore Bot! 🔍\n\n" +
		"Your AI-powered companion for exploring digital content across platforms.\n\n" +
		"I can analyze:\n" +
		"🔐 Social media accounts and profiles\n" +
		"🔑 Keywords and trends\n" +
		"🌐 Web content and websites\n" +
		"🎵 TikTok videos and hashtags\n" +
		"💬 Reddit posts and discussions\n\n" +
		"⚡ Powered by Gopher AI\n" +
		"📊 https://data.gopher-ai.com\n\n" +
		"🛠️ Commands: /start • /help • /info • /search\n\n" +
		"💡 Simply send me usernames, keywords, or URLs to begin exploring!\n\n" +
		"🚀 Your digital discovery journey starts here!"

	HelpMessage = "🤖 Telegram Bot Help\n\n" +
		"Available commands:\n\n" +
		"• /start - Start bot and display welcome message\n" +
		"• /help - Show this help message\n" +
		"• /info - Display bot information\n" +
		"• /search - Begin a Gopher data search\n\n" +
		"Bot features:\n" +
		"✅ Interactive search dialogue\n" +
		"✅ Live results from the Gopher AI data API\n" +
		"✅ Paginated, formatted reports"

	SearchMenuMessage = "🔍 Choose search type:\n\n" +
		"Select one of the options below:"

	SessionExpiredMessage = "❌ Search session expired. Please use /search to start again."

	SearchStartingMessage = "🔄 Starting search... Please wait a moment."

	UnknownCommandMessage = "❌ Unknown command. Type /help to see available commands."

	QueryExamples = "Examples: 'from:gopher_ai', 'python tutorial', '#web3', 'Elon Musk'"
)
