package urls

// Documentation URLs for guides and troubleshooting
// All URLs point to the documentation site at https://muurk.github.io/fairyctl/

// GettingStarted is the quick start guide for new users:
// scanning, first connection, and naming lights.
const GettingStarted = "https://muurk.github.io/fairyctl/getting-started/overview/"

// TroubleshootingGuide provides solutions to common issues
// encountered when scanning for and connecting to lights.
const TroubleshootingGuide = "https://muurk.github.io/fairyctl/troubleshooting/"

// ProtocolNotes documents the reverse-engineered frame format:
// command encoding, the checksum trailer, and status notifications.
const ProtocolNotes = "https://muurk.github.io/fairyctl/protocol/frames/"

// CloneSupport explains how to probe a rebadged unit's status layout
// and contribute its offsets to the catalog.
const CloneSupport = "https://muurk.github.io/fairyctl/protocol/clones/"

// BridgeAPI is the reference for the fairy-bridge WebSocket endpoint
// used by home automation integrations.
const BridgeAPI = "https://muurk.github.io/fairyctl/bridge/api/"
