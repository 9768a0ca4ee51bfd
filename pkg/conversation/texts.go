package conversation

// Тексты бота для основной аудитории.
const (
	textMenuTitle = "🛠 মুভি মেকার কন্ট্রোল প্যানেল"
	textMenu      = "নিচের বাটনগুলো ব্যবহার করুন:"

	btnStartPost     = "🎬 মুভি পোস্ট তৈরি"
	btnChannels      = "📢 চ্যানেল সেটআপ"
	btnUserZone      = "🆔 জোন আইডি সেট"
	btnPremium       = "💎 প্রিমিয়াম প্ল্যান"
	btnAdminZone     = "⚙️ ডিফল্ট জোন"
	btnAdminClicks   = "🖱 ডিফল্ট ক্লিক"
	btnOffer         = "🎁 অফার এডিট"
	btnAddMember     = "➕ মেম্বার অ্যাড"
	btnRemoveMember  = "➖ মেম্বার রিমুভ"
	btnSkipQuality   = "⏩ Skip"
	btnConfirm       = "🚀 জেনারেট HTML ও লিঙ্ক"
	btnAddChannel    = "➕ যোগ করুন"
	btnClearChannels = "🗑 সব মুছুন"
	btnCancel        = "❌ বাতিল"

	textDenied    = "❌ এক্সেস ডিনাইড! এই ফিচারটি ব্যবহারের জন্য আপনাকে প্রিমিয়াম মেম্বার হতে হবে।"
	textOwnerOnly = "⛔ এই কাজটি শুধুমাত্র ওনারের জন্য।"
	textFailure   = "⚠️ কিছু একটা ভুল হয়েছে, আবার চেষ্টা করুন।"
	textCancelled = "✅ বাতিল করা হয়েছে।"
	textNoDraft   = "ℹ️ কোনো চলমান পোস্ট নেই। /start দিন।"

	textAskTitle       = "🎬 মুভির নাম (Title) লিখুন:"
	textAskImage       = "ইমেজ ইউআরএল:"
	textAskLanguage    = "ভাষা:"
	textAskQuality     = "কোয়ালিটি (উদা: 720p):"
	textAskQualityLink = "মুভি ডাউনলোড লিঙ্ক:"
	textMoreQualities  = "আরও কোয়ালিটি দিন বা Skip বাটনে ক্লিক করুন।"
	textNeedQuality    = "❌ অন্তত একটি কোয়ালিটি লিঙ্ক দিন।"
	textConfirm        = "সব ঠিক থাকলে জেনারেট করুন:"
	textSuccess        = "✅ সফল!"
	textPreviewLink    = "🔗 প্রিভিউ লিঙ্ক: "
	textZone           = "🆔 জোন: "

	textChannelsTitle  = "📢 আপনার চ্যানেলসমূহ:"
	textNoChannels     = "কোনো চ্যানেল নেই।"
	textAskChannelName = "চ্যানেলের নাম:"
	textAskChannelLink = "লিঙ্ক দিন:"
	textChannelSaved   = "✅ চ্যানেল সেভ হয়েছে।"
	textChannelsClear  = "✅ সব ক্লিয়ার হয়েছে।"

	textAskUserZone   = "📝 আপনার নিজস্ব Zone ID টি দিন:"
	textUserZoneSaved = "✅ জোন আইডি সেভ হয়েছে।"
	textBadZone       = "❌ ভুল আইডি! দয়া করে শুধু সংখ্যা লিখুন।"

	textOfferTitle = "💎 প্রিমিয়াম অফার:"
	textContact    = "যোগাযোগ: @"

	textAskAdminZone    = "🆔 ডিফল্ট জোন আইডি দিন:"
	textAdminZoneSaved  = "✅ ডিফল্ট জোন সেভড।"
	textAskAdminClicks  = "🖱 ডিফল্ট ক্লিক দিন:"
	textBadClicks       = "❌ ক্লিক সংখ্যা শূন্য বা ধনাত্মক পূর্ণসংখ্যা হতে হবে।"
	textAdminClicksSave = "✅ ডিফল্ট ক্লিক সেভড।"
	textAskOffer        = "📝 অফার লিস্ট লিখুন:"
	textOfferSaved      = "✅ অফার আপডেট হয়েছে।"
	textAskAddMember    = "👤 মেম্বার অ্যাড করতে লিখুন: UserID | Days | Plan"
	textBadFormat       = "❌ ফরম্যাট ভুল।"
	textMemberAdded     = "✅ প্রিমিয়াম মেম্বার অ্যাড করা হয়েছে।"
	textMemberWelcome   = "🎉 অভিনন্দন! আপনি এখন প্রিমিয়াম মেম্বার। এখন আপনি মুভি পোস্ট ও জোন আইডি ব্যবহার করতে পারবেন।"
	textWelcomeFailed   = "⚠️ মেম্বারকে মেসেজ পাঠানো যায়নি। ইউজারকে আগে বটে /start দিতে বলুন।"
	textAskRemoveMember = "👤 মেম্বার রিমুভ করতে UserID লিখুন:"
	textMemberRemoved   = "✅ মেম্বার রিমুভ করা হয়েছে।"
	textMemberNotFound  = "ℹ️ এই আইডির কোনো মেম্বার নেই।"

	textStats = "📊 পোস্ট: %d\n👤 প্রোফাইল: %d\n💎 প্রিমিয়াম: %d"
)

// doneKeywords завершают ввод качеств так же, как кнопка Skip.
var doneKeywords = map[string]bool{"done": true, "skip": true}
