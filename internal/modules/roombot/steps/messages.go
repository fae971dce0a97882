package steps

// Reply texts.
const (
	textWelcome = "Welcome, this bot is intended to find vacant rooms on campus. Select an option to get started ✨"

	textHelpIntro = "Sounds like you need some help 😨"
	textHelpHint  = "Click \"Find a room\" below to begin 😌"

	textRetry = "Sorry, I can't understand your message"

	textIssueRoom   = "Oh no! What's wrong with the room?"
	textIssueOther  = "Oh no! What went wrong?"
	textIssueThanks = "Thanks! You can look for another room if you'd like :)"

	textWhen         = "When would you like your room?"
	textWhenNow      = "Now"
	textWhenHour     = "In an hour"
	textWhenHalfHour = "In half an hour"

	textAskLocation = "Nice! If your looking for rooms nearby, please send your location, Otherwise hit 'No Thanks'!"
	textNoThanks    = "No Thanks"

	textNevermind = "Nevermind 😒"
	textShowMore  = "Show more 👉"
	textWantRoom  = "I👏Want👏This👏Room"
	textRoomInfo  = "Room Info 🌚"
	textBuildInfo = "Building Info 🌏"

	textNoMoreRooms = "Sorry no more other are available right now 😥"
	textNoRooms     = "Sorry no rooms are available right now 😥\nAs far as we know, at least 🤔"

	textHowAbout      = "How about this room?"
	textConfirmRoom   = "I want this room 👌"
	textDifferentRoom = "Different room 🤔"
	textMoreInfo      = "More info 👀"

	textBooked       = "Perfect ✨ Here's where you'll find your room 🤓"
	textIllegalState = "Can't get this for you right now... have you already asked for this room?"
	textStale        = "Unsure how to help you with that!"
	textCantNow      = "Sorry, I can't do that right now. Please try again in a moment."
)
